package cache

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/kmunkitt/skim/internal/logging"
)

// Phase is the lifecycle state of a cache generation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInstalled // assets cached, waiting for the activation signal
	PhaseActive    // sole generation, serving
)

// Lifecycle drives a cache generation through install, activate, and
// serve. A freshly installed generation is held in PhaseInstalled until it
// receives an explicit skip-waiting signal, so an already-open session is
// not disrupted mid-use. Once activated, every other generation is
// discarded and the took-control event fires; the controlling page is
// responsible for reloading.
type Lifecycle struct {
	cache      *Cache
	client     *http.Client
	generation int
	assets     []string

	phase     Phase
	skipCh    chan struct{}
	controlCh chan int
}

// ActiveGeneration picks the generation that serves requests on startup:
// the newest generation on disk other than the incoming one, since that
// one was serving before this version installed. The incoming generation
// serves only when the cache holds nothing else.
func ActiveGeneration(gens []int, incoming int) int {
	active := incoming
	found := false
	for _, g := range gens {
		if g == incoming {
			continue
		}
		if !found || g > active {
			active = g
			found = true
		}
	}
	return active
}

// NewLifecycle creates a lifecycle for the given generation. The client
// is used for pre-caching and must bypass the proxy.
func NewLifecycle(c *Cache, client *http.Client, generation int, assets []string) *Lifecycle {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Lifecycle{
		cache:      c,
		client:     client,
		generation: generation,
		assets:     assets,
		skipCh:     make(chan struct{}, 1),
		controlCh:  make(chan int, 1),
	}
}

// Phase returns the current lifecycle phase.
func (l *Lifecycle) Phase() Phase { return l.phase }

// Generation returns the version tag this lifecycle manages.
func (l *Lifecycle) Generation() int { return l.generation }

// Install pre-populates the cache with the static asset list under the
// current generation. An asset that cannot be fetched is logged and
// skipped; install itself only fails on cache I/O.
func (l *Lifecycle) Install(ctx context.Context, base string) error {
	for _, asset := range l.assets {
		if err := l.precache(ctx, base, asset); err != nil {
			logging.Warn("Failed to pre-cache asset", "asset", asset, "error", err)
		}
	}
	l.phase = PhaseInstalled
	logging.Info("Cache generation installed", "generation", l.generation, "assets", len(l.assets))
	return nil
}

func (l *Lifecycle) precache(ctx context.Context, base, asset string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+asset, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return l.cache.Put(l.generation, Entry{
		URL:         base + asset,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	})
}

// SkipWaiting signals the pending generation to take over immediately.
// Safe to call more than once.
func (l *Lifecycle) SkipWaiting() {
	select {
	case l.skipCh <- struct{}{}:
	default:
	}
}

// TookControl fires the generation number once the new version has taken
// control.
func (l *Lifecycle) TookControl() <-chan int { return l.controlCh }

// Run waits for the activation signal and then activates. Returns when
// activation completes or the context is cancelled.
func (l *Lifecycle) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-l.skipCh:
	}
	if err := l.Activate(); err != nil {
		logging.Error("Cache activation failed", "error", err)
	}
}

// Activate makes this generation the only live one: every entry from a
// different generation is deleted, and the took-control event fires.
func (l *Lifecycle) Activate() error {
	if err := l.cache.PurgeOthers(l.generation); err != nil {
		return err
	}
	l.phase = PhaseActive
	logging.Info("Cache generation activated", "generation", l.generation)

	select {
	case l.controlCh <- l.generation:
	default:
	}
	return nil
}
