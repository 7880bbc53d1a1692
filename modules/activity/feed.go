package activity

import (
	"sync"
	"time"
)

// Entry is one item in the activity feed.
type Entry struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Username          string    `json:"username"`
	Action            string    `json:"action"`
	TaskTitle         string    `json:"task_title,omitempty"`
	ProductivityScore int       `json:"productivity_score,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// Feed actions.
const (
	ActionCreated           = "created"
	ActionStarted           = "started"
	ActionCompleted         = "completed"
	ActionCatalystCompleted = "completed_catalyst"
)

// maxEntries bounds the in-memory feed.
const maxEntries = 100

// Feed is a bounded, newest-first in-memory activity feed.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{
		entries: make([]Entry, 0, maxEntries),
	}
}

// Add prepends an entry, evicting the oldest once the feed is full.
func (f *Feed) Add(entry Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append([]Entry{entry}, f.entries...)
	if len(f.entries) > maxEntries {
		f.entries = f.entries[:maxEntries]
	}
}

// Recent returns up to limit entries, newest first.
func (f *Feed) Recent(limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if limit <= 0 || limit > len(f.entries) {
		limit = len(f.entries)
	}
	result := make([]Entry, limit)
	copy(result, f.entries[:limit])
	return result
}

// Len returns the number of entries currently held.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
