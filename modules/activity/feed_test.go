package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/HichamMeziani/TaskCatalyst/events"
)

func TestFeedAddAndRecent(t *testing.T) {
	feed := NewFeed()

	for i := 0; i < 3; i++ {
		feed.Add(Entry{
			ID:        fmt.Sprintf("entry-%d", i),
			Username:  "Alex",
			Action:    ActionCreated,
			Timestamp: time.Now(),
		})
	}

	recent := feed.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].ID != "entry-2" || recent[1].ID != "entry-1" {
		t.Errorf("wrong order: %s, %s", recent[0].ID, recent[1].ID)
	}

	if got := feed.Recent(0); len(got) != 3 {
		t.Errorf("Recent(0) = %d entries, want all 3", len(got))
	}
	if got := feed.Recent(50); len(got) != 3 {
		t.Errorf("Recent(50) = %d entries, want 3", len(got))
	}
}

func TestFeedBounded(t *testing.T) {
	feed := NewFeed()

	for i := 0; i < maxEntries+10; i++ {
		feed.Add(Entry{ID: fmt.Sprintf("entry-%d", i)})
	}

	if feed.Len() != maxEntries {
		t.Fatalf("expected feed capped at %d, got %d", maxEntries, feed.Len())
	}
	// The newest entry survives eviction.
	if got := feed.Recent(1)[0].ID; got != fmt.Sprintf("entry-%d", maxEntries+9) {
		t.Errorf("newest entry = %s", got)
	}
}

func TestModuleHandlersAppendEntries(t *testing.T) {
	m := NewModule()
	ctx := context.Background()
	now := time.Now()

	if err := m.handleTaskCreated(ctx, events.TaskCreatedEvent{
		TaskID: "t1", Title: "Write report", UserID: "u1", Username: "Alex", CreatedAt: now,
	}, nil); err != nil {
		t.Fatalf("handleTaskCreated() error = %v", err)
	}
	if err := m.handleTaskStarted(ctx, events.TaskStartedEvent{
		TaskID: "t1", Title: "Write report", UserID: "u1", Username: "Alex", StartedAt: now,
	}, nil); err != nil {
		t.Fatalf("handleTaskStarted() error = %v", err)
	}
	if err := m.handleTaskCompleted(ctx, events.TaskCompletedEvent{
		TaskID: "t1", Title: "Write report", UserID: "u1", Username: "Alex", CompletedAt: now,
		ProductivityScore: 110,
	}, nil); err != nil {
		t.Fatalf("handleTaskCompleted() error = %v", err)
	}
	if err := m.handleCatalystCompleted(ctx, events.CatalystCompletedEvent{
		CatalystID: "c1", TaskID: "t1", TaskTitle: "Write report", UserID: "u1", Username: "Alex", CompletedAt: now,
	}, nil); err != nil {
		t.Fatalf("handleCatalystCompleted() error = %v", err)
	}

	resp, err := m.getFeed(ctx, GetFeedRequest{}, nil)
	if err != nil {
		t.Fatalf("getFeed() error = %v", err)
	}
	if len(resp.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(resp.Entries))
	}

	wantActions := []string{ActionCatalystCompleted, ActionCompleted, ActionStarted, ActionCreated}
	for i, want := range wantActions {
		if resp.Entries[i].Action != want {
			t.Errorf("entry %d action = %s, want %s", i, resp.Entries[i].Action, want)
		}
	}
	for _, entry := range resp.Entries {
		if entry.Username != "Alex" || entry.TaskTitle != "Write report" {
			t.Errorf("unexpected entry %+v", entry)
		}
	}

	// Only the completion entry reports the score.
	for i, entry := range resp.Entries {
		want := 0
		if entry.Action == ActionCompleted {
			want = 110
		}
		if entry.ProductivityScore != want {
			t.Errorf("entry %d productivity score = %d, want %d", i, entry.ProductivityScore, want)
		}
	}
}

func TestGetFeedLimit(t *testing.T) {
	m := NewModule()
	for i := 0; i < 30; i++ {
		m.feed.Add(Entry{ID: fmt.Sprintf("entry-%d", i)})
	}

	resp, err := m.getFeed(context.Background(), GetFeedRequest{}, nil)
	if err != nil {
		t.Fatalf("getFeed() error = %v", err)
	}
	if len(resp.Entries) != defaultFeedLimit {
		t.Errorf("default limit = %d entries, want %d", len(resp.Entries), defaultFeedLimit)
	}

	resp, err = m.getFeed(context.Background(), GetFeedRequest{Limit: 5}, nil)
	if err != nil {
		t.Fatalf("getFeed() error = %v", err)
	}
	if len(resp.Entries) != 5 {
		t.Errorf("limit 5 = %d entries", len(resp.Entries))
	}
}
