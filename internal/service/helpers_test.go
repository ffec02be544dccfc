package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"vidtube/internal/model"
	"vidtube/internal/queue"
	"vidtube/internal/repository"
	"vidtube/internal/repository/memstore"
)

// =============================================================================
// FIXTURES
// =============================================================================

type fixture struct {
	db    *memstore.DB
	store *repository.Store

	alice model.User
	bob   model.User
	carol model.User

	// video is owned by bob.
	video model.Video
	other model.Video
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{db: memstore.New()}
	f.alice = model.User{ID: model.NewID(), Username: "alice", FullName: "Alice Liddell", Avatar: "https://cdn/alice.png"}
	f.bob = model.User{ID: model.NewID(), Username: "bob", FullName: "Bob Builder", Avatar: "https://cdn/bob.png"}
	f.carol = model.User{ID: model.NewID(), Username: "carol", FullName: "Carol Danvers"}
	for _, u := range []model.User{f.alice, f.bob, f.carol} {
		f.db.AddUser(u)
	}

	f.video = model.Video{ID: model.NewID(), OwnerID: f.bob.ID, Title: "Building things", Thumbnail: "thumb.jpg", Views: 120}
	f.other = model.Video{ID: model.NewID(), OwnerID: f.alice.ID, Title: "Wonderland vlog", Views: 30}
	f.db.AddVideo(f.video)
	f.db.AddVideo(f.other)

	f.store = f.db.Store()
	return f
}

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func ptr(s string) *string {
	return &s
}

// =============================================================================
// MOCK PUBLISHER
// =============================================================================

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, stream string, event queue.ActivityEvent) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.events = append(p.events, event)
	return "1-0", nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
