// Package history persists the submissions received by a canvas so a
// restarted host can skip what it has already drawn.
package history

import (
	"context"
	"errors"
	"sync"

	"collectivecanvas/pkg/canvas/submission"
)

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("history: store closed")

// Store records submissions per canvas.
type Store interface {
	Append(ctx context.Context, s submission.Submission) error
	List(ctx context.Context, canvasID string) ([]submission.Submission, error)
	Count(ctx context.Context, canvasID string) (int, error)
	Clear(ctx context.Context, canvasID string) error
	Close() error
}

// MemoryStore keeps history in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	byID   map[string][]submission.Submission
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string][]submission.Submission)}
}

func (m *MemoryStore) Append(_ context.Context, s submission.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.byID[s.CanvasID] = append(m.byID[s.CanvasID], s)
	return nil
}

func (m *MemoryStore) List(_ context.Context, canvasID string) ([]submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]submission.Submission, len(m.byID[canvasID]))
	copy(out, m.byID[canvasID])
	return out, nil
}

func (m *MemoryStore) Count(_ context.Context, canvasID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	return len(m.byID[canvasID]), nil
}

func (m *MemoryStore) Clear(_ context.Context, canvasID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.byID, canvasID)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.byID = nil
	return nil
}

// Replay marks every stored submission of canvasID as seen.
func Replay(ctx context.Context, st Store, canvasID string, seen *submission.Deduper) (int, error) {
	subs, err := st.List(ctx, canvasID)
	if err != nil {
		return 0, err
	}
	for _, s := range subs {
		seen.Seen(s.ID)
	}
	return len(subs), nil
}
