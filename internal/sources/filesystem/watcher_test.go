package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"pdf write", fsnotify.Event{Name: "/data/BNS.pdf", Op: fsnotify.Write}, true},
		{"pdf create", fsnotify.Event{Name: "/data/new.PDF", Op: fsnotify.Create}, true},
		{"pdf remove", fsnotify.Event{Name: "/data/old.pdf", Op: fsnotify.Remove}, true},
		{"non-pdf", fsnotify.Event{Name: "/data/notes.txt", Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: "/data/BNS.pdf", Op: fsnotify.Chmod}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event))
		})
	}
}

func TestWatch_TriggersAfterDebounce(t *testing.T) {
	dir := t.TempDir()

	triggered := make(chan struct{}, 1)
	w := New(dir, func(context.Context) {
		select {
		case triggered <- struct{}{}:
		default:
		}
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BNS.pdf"), []byte("%PDF-1.4"), 0600))

	select {
	case <-triggered:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not trigger")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	triggered := make(chan struct{}, 1)
	w := New(dir, func(context.Context) {
		triggered <- struct{}{}
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	select {
	case <-triggered:
		t.Fatal("watcher triggered on a non-PDF file")
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}
