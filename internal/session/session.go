package session

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/texthl/internal/doctree"
	"github.com/dgallion1/texthl/internal/highlight"
)

// EventType names a change to a session's highlights.
type EventType string

const (
	EventHighlight EventType = "highlight"
	EventRemove    EventType = "remove"
)

// Event is pushed to subscribers whenever markers are created or removed.
type Event struct {
	Type    EventType `json:"type"`
	BatchID int64     `json:"batch_id"`
	Text    string    `json:"text"`
	Color   string    `json:"color,omitempty"`
}

const subscriberBuffer = 64

// Session pairs one loaded document with the highlighter bound to it.
// All engine calls go through Do, which serializes them.
type Session struct {
	mu sync.Mutex

	ID          string `json:"session_id"`
	Title       string `json:"title"`
	Filename    string `json:"filename"`
	ContentHash string `json:"content_hash"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	doc *doctree.Document
	hl  *highlight.Highlighter
	log *slog.Logger

	subMu  sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

// New opens a session over doc. Events are published from the highlight
// and remove hooks; opts may add further highlighter options but should not
// replace those two hooks.
func New(doc *doctree.Document, filename, contentHash string, log *slog.Logger, opts ...highlight.Option) (*Session, error) {
	now := time.Now()
	s := &Session{
		ID:          uuid.NewString(),
		Title:       doc.Title,
		Filename:    filename,
		ContentHash: contentHash,
		CreatedAt:   now,
		UpdatedAt:   now,
		doc:         doc,
		subs:        make(map[chan Event]struct{}),
	}
	s.log = log.With("session_id", s.ID)

	opts = append([]highlight.Option{
		highlight.WithLogger(s.log),
		// Selections arrive as explicit API calls, never as gestures.
		highlight.WithBindEvents(false),
	}, opts...)
	opts = append(opts,
		highlight.WithAfterHighlight(s.afterHighlight),
		highlight.WithRemoveHighlight(s.removeHighlight),
	)

	hl, err := highlight.New(doc.Root, opts...)
	if err != nil {
		return nil, fmt.Errorf("new highlighter: %w", err)
	}
	s.hl = hl
	return s, nil
}

// Do runs fn with exclusive access to the session's highlighter.
func (s *Session) Do(fn func(*highlight.Highlighter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
	return fn(s.hl)
}

// Snapshot is a read-only, JSON-safe copy of session metadata.
type Snapshot struct {
	ID          string    `json:"session_id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	Markers     int       `json:"markers"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:          s.ID,
		Title:       s.Title,
		Filename:    s.Filename,
		ContentHash: s.ContentHash,
		Markers:     len(s.hl.Highlights(highlight.QueryOptions{})),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// Subscribe registers for events. The returned func unsubscribes. Slow
// subscribers miss events rather than block the engine.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
}

func (s *Session) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.log.Warn("dropping event for slow subscriber", "type", ev.Type, "batch_id", ev.BatchID)
		}
	}
}

func (s *Session) afterHighlight(_ highlight.Span, markers []*doctree.Node, batchID int64) {
	color := ""
	if len(markers) > 0 {
		color = highlight.MarkerColor(markers[0])
	}
	s.publish(Event{
		Type:    EventHighlight,
		BatchID: batchID,
		Text:    highlight.Group{BatchID: batchID, Markers: markers}.Text(),
		Color:   color,
	})
}

func (s *Session) removeHighlight(marker *doctree.Node) bool {
	s.publish(Event{
		Type:    EventRemove,
		BatchID: highlight.MarkerBatch(marker),
		Text:    marker.TextContent(),
	})
	return true
}

// Close destroys the highlighter and ends every subscription.
func (s *Session) Close() {
	s.mu.Lock()
	s.hl.Destroy()
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.closed = true
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
