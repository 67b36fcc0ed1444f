// Package config holds the persistent application configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Config is the persistent application configuration
type Config struct {
	// Data endpoints
	Sources SourceConfig `json:"sources"`

	// Offline cache settings
	Cache CacheConfig `json:"cache"`

	// UI preferences
	UI UIConfig `json:"ui"`

	// Gesture tuning
	Gestures GestureConfig `json:"gestures"`
}

// SourceConfig holds the two data endpoints plus optional direct RSS
// subscriptions merged into the same collection.
type SourceConfig struct {
	FeedURL   string      `json:"feed_url"`   // Primary feed endpoint (JSON item list)
	SocialURL string      `json:"social_url"` // Secondary local/social resource
	RSS       []RSSSource `json:"rss,omitempty"`
}

// RSSSource is a direct RSS/Atom subscription.
type RSSSource struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}

// CacheConfig controls the offline cache generation.
type CacheConfig struct {
	Version int      `json:"version"` // Bump to force a full cache rebuild
	Assets  []string `json:"assets"`  // Static assets pre-cached on install
}

// UIConfig holds UI preferences. The two toggles are pointers so an
// absent key can be told apart from an explicit false; absent means
// enabled.
type UIConfig struct {
	DefaultFilter  string `json:"default_filter"`
	BionicReading  *bool  `json:"bionic_reading,omitempty"`
	RefreshMinutes int    `json:"refresh_minutes"` // Background revalidation interval
	HapticsEnabled *bool  `json:"haptics_enabled,omitempty"` // Status-bar pulse on swipe commit
}

// Bionic reports whether the reading-aid transform is on.
func (u UIConfig) Bionic() bool {
	return u.BionicReading == nil || *u.BionicReading
}

// Haptics reports whether the status-bar haptic pulses are on.
func (u UIConfig) Haptics() bool {
	return u.HapticsEnabled == nil || *u.HapticsEnabled
}

// GestureConfig holds gesture recognizer tuning.
type GestureConfig struct {
	SwipeThreshold     float64 `json:"swipe_threshold"`      // Fraction of item width
	LongSwipeThreshold float64 `json:"long_swipe_threshold"` // Fraction of item width
	JitterPx           float64 `json:"jitter_px"`
	LongPressMs        int     `json:"long_press_ms"`
	PullDistancePx     float64 `json:"pull_distance_px"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Sources: SourceConfig{
			FeedURL:   "https://rss-worker.kmunkitt.workers.dev/data/rss.json",
			SocialURL: "data/social.json",
		},
		Cache: CacheConfig{
			Version: 2,
			Assets: []string{
				"/",
				"/index.html",
				"/app.js",
				"/style.css",
				"/manifest.json",
			},
		},
		UI: UIConfig{
			DefaultFilter:  "all",
			RefreshMinutes: 30,
		},
		Gestures: GestureConfig{
			SwipeThreshold:     0.3,
			LongSwipeThreshold: 0.6,
			JitterPx:           10,
			LongPressMs:        500,
			PullDistancePx:     50,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "skim", "config.json")
}

// DataDir returns the directory holding the store and cache databases.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "skim")
}

// LogDir returns the directory for log files.
func LogDir() string {
	return filepath.Join(xdg.StateHome, "skim", "logs")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}
	cfg.fillDefaults()

	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// fillDefaults patches zero values left by older or partial config files.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Sources.FeedURL == "" {
		c.Sources.FeedURL = def.Sources.FeedURL
	}
	if c.Sources.SocialURL == "" {
		c.Sources.SocialURL = def.Sources.SocialURL
	}
	if c.Cache.Version == 0 {
		c.Cache.Version = def.Cache.Version
	}
	if len(c.Cache.Assets) == 0 {
		c.Cache.Assets = def.Cache.Assets
	}
	if c.UI.DefaultFilter == "" {
		c.UI.DefaultFilter = def.UI.DefaultFilter
	}
	if c.UI.RefreshMinutes == 0 {
		c.UI.RefreshMinutes = def.UI.RefreshMinutes
	}
	if c.Gestures.SwipeThreshold == 0 {
		c.Gestures.SwipeThreshold = def.Gestures.SwipeThreshold
	}
	if c.Gestures.LongSwipeThreshold == 0 {
		c.Gestures.LongSwipeThreshold = def.Gestures.LongSwipeThreshold
	}
	if c.Gestures.JitterPx == 0 {
		c.Gestures.JitterPx = def.Gestures.JitterPx
	}
	if c.Gestures.LongPressMs == 0 {
		c.Gestures.LongPressMs = def.Gestures.LongPressMs
	}
	if c.Gestures.PullDistancePx == 0 {
		c.Gestures.PullDistancePx = def.Gestures.PullDistancePx
	}
}
