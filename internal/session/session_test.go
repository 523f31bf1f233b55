package session

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/texthl/internal/highlight"
	"github.com/dgallion1/texthl/internal/parser"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, text string) *Session {
	t.Helper()
	doc, err := (&parser.TextParser{}).Parse(strings.NewReader(text), "doc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := New(doc, "doc.txt", ContentHashHex([]byte(text)), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func highlightOffsets(t *testing.T, s *Session, start, end int) int64 {
	t.Helper()
	var id int64
	err := s.Do(func(h *highlight.Highlighter) error {
		span, err := highlight.SpanFromTextOffsets(h.Anchor(), start, end)
		if err != nil {
			return err
		}
		id = h.DoHighlight(&span, false)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return id
}

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h := ContentHashHex([]byte{}); h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestSession_New(t *testing.T) {
	s := newTestSession(t, "Hello world")
	if s.ID == "" {
		t.Error("expected a session id")
	}
	if s.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", s.Title)
	}
	snap := s.Snapshot()
	if snap.Markers != 0 {
		t.Errorf("expected 0 markers, got %d", snap.Markers)
	}
}

func TestSession_DoAdvancesUpdatedAt(t *testing.T) {
	s := newTestSession(t, "Hello world")
	before := s.Snapshot().UpdatedAt
	time.Sleep(time.Millisecond)
	if err := s.Do(func(*highlight.Highlighter) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Snapshot().UpdatedAt.After(before) {
		t.Error("expected UpdatedAt to advance after Do")
	}
}

func TestSession_Events(t *testing.T) {
	s := newTestSession(t, "Hello world")
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	id := highlightOffsets(t, s, 0, 5)

	ev := <-events
	if ev.Type != EventHighlight || ev.BatchID != id || ev.Text != "Hello" {
		t.Errorf("expected highlight event for %q, got %+v", "Hello", ev)
	}
	if ev.Color != highlight.DefaultColor {
		t.Errorf("expected colour %q, got %q", highlight.DefaultColor, ev.Color)
	}

	err := s.Do(func(h *highlight.Highlighter) error {
		h.RemoveHighlights(nil)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev = <-events
	if ev.Type != EventRemove || ev.BatchID != id || ev.Text != "Hello" {
		t.Errorf("expected remove event for %q, got %+v", "Hello", ev)
	}
	if n := s.Snapshot().Markers; n != 0 {
		t.Errorf("expected markers to be removed, got %d", n)
	}
}

func TestSession_SlowSubscriberDoesNotBlock(t *testing.T) {
	s := newTestSession(t, strings.Repeat("word ", subscriberBuffer+10))
	_, unsubscribe := s.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+5; i++ {
			s.Do(func(h *highlight.Highlighter) error {
				span, err := highlight.SpanFromTextOffsets(h.Anchor(), i*5, i*5+4)
				if err != nil {
					return err
				}
				h.DoHighlight(&span, false)
				return nil
			})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected highlighting to proceed without a reader")
	}
}

func TestSession_CloseEndsSubscriptions(t *testing.T) {
	s := newTestSession(t, "Hello world")
	events, unsubscribe := s.Subscribe()
	s.Close()

	if _, ok := <-events; ok {
		t.Error("expected channel to be closed")
	}
	unsubscribe()

	late, _ := s.Subscribe()
	if _, ok := <-late; ok {
		t.Error("expected subscription after close to be closed")
	}
}

func TestStore_PutGet(t *testing.T) {
	store := NewStore(time.Hour, 0)
	s := newTestSession(t, "x")
	if err := store.Put(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.Get(s.ID); got != s {
		t.Error("expected to get session back")
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing session")
	}
}

func TestStore_Limit(t *testing.T) {
	store := NewStore(time.Hour, 1)
	if err := store.Put(newTestSession(t, "a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Put(newTestSession(t, "b")); err != ErrStoreFull {
		t.Errorf("expected ErrStoreFull, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(time.Hour, 0)
	s := newTestSession(t, "x")
	store.Put(s)

	if !store.Delete(s.ID) {
		t.Error("expected Delete to report the session")
	}
	if store.Delete(s.ID) {
		t.Error("expected second Delete to report nothing")
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestStore_TTLCleanup(t *testing.T) {
	store := NewStore(50*time.Millisecond, 0)

	expired := newTestSession(t, "old")
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := newTestSession(t, "new")
	store.Put(fresh)

	if n := store.Cleanup(); n != 1 {
		t.Errorf("expected 1 session evicted, got %d", n)
	}
	if store.Get(expired.ID) != nil {
		t.Error("expected expired session to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh session to survive cleanup")
	}
}

func TestStore_CleanupEmpty(t *testing.T) {
	store := NewStore(time.Hour, 0)
	// Should not panic on empty store.
	store.Cleanup()
}
