// Package triage tracks per-item read / starred / read-later flags.
//
// The state is an in-memory record keyed by item ID, durably backed by the
// persistence store under a single key. Every mutation rewrites the whole
// record. Persistence is best-effort: a failed write is logged and dropped,
// and the next mutation writes the latest in-memory state, so the store
// converges with memory but may lag on crash.
package triage

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/kmunkitt/skim/internal/logging"
)

// StateKey is the store key holding the serialized triage record.
const StateKey = "reader-state"

// Kind selects one of the three triage flags.
type Kind string

const (
	KindRead      Kind = "read"
	KindStarred   Kind = "starred"
	KindReadLater Kind = "readLater"
)

// Record is the wire form of the triage state. Membership in each list is
// independent: an ID may appear in any subset of the three.
type Record struct {
	Read      []string `json:"read"`
	Starred   []string `json:"starred"`
	ReadLater []string `json:"readLater"`
}

// Persister is the slice of the store the triage state needs.
type Persister interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// State is the live triage record. Safe for concurrent use, though the
// application drives it from a single logical actor.
type State struct {
	mu        sync.Mutex
	read      map[string]bool
	starred   map[string]bool
	readLater map[string]bool
	store     Persister
}

// Load reads the record from the store, starting empty when no prior
// record exists or the stored record cannot be decoded.
func Load(store Persister) *State {
	s := &State{
		read:      make(map[string]bool),
		starred:   make(map[string]bool),
		readLater: make(map[string]bool),
		store:     store,
	}

	data, err := store.Get(StateKey)
	if err != nil {
		return s
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		logging.Warn("Discarding unreadable triage record", "error", err)
		return s
	}

	for _, id := range rec.Read {
		s.read[id] = true
	}
	for _, id := range rec.Starred {
		s.starred[id] = true
	}
	for _, id := range rec.ReadLater {
		s.readLater[id] = true
	}
	return s
}

// Toggle flips membership of id in the given kind's set, then persists.
func (s *State) Toggle(kind Kind, id string) {
	s.mu.Lock()
	set := s.set(kind)
	if set[id] {
		delete(set, id)
	} else {
		set[id] = true
	}
	s.mu.Unlock()

	s.persist()
}

// MarkRead adds id to the read set. Idempotent - used for tap-to-open,
// where re-reading must not flip the flag back.
func (s *State) MarkRead(id string) {
	s.mu.Lock()
	already := s.read[id]
	s.read[id] = true
	s.mu.Unlock()

	if already {
		return
	}
	s.persist()
}

// IsRead reports whether id is in the read set.
func (s *State) IsRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read[id]
}

// IsStarred reports whether id is in the starred set.
func (s *State) IsStarred(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starred[id]
}

// IsReadLater reports whether id is in the read-later set.
func (s *State) IsReadLater(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLater[id]
}

func (s *State) set(kind Kind) map[string]bool {
	switch kind {
	case KindStarred:
		return s.starred
	case KindReadLater:
		return s.readLater
	default:
		return s.read
	}
}

// Snapshot returns the record in its wire form, each list sorted for a
// deterministic serialization.
func (s *State) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Record{
		Read:      sortedKeys(s.read),
		Starred:   sortedKeys(s.starred),
		ReadLater: sortedKeys(s.readLater),
	}
}

// persist writes the whole record. Write failures are logged and dropped;
// the next mutation carries the latest state.
func (s *State) persist() {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		logging.Warn("Failed to encode triage record", "error", err)
		return
	}
	if err := s.store.Put(StateKey, data); err != nil {
		logging.Warn("Failed to persist triage record", "error", err)
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
