package loader

import (
	"context"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"immimate-hq/polaris/pkg/config"
	"immimate-hq/polaris/pkg/grid/storage"
)

func TestShouldProcessEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "grids/crs.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "grids/crs.yml", Op: fsnotify.Create}, true},
		{"chmod ignored", fsnotify.Event{Name: "grids/crs.yaml", Op: fsnotify.Chmod}, false},
		{"hidden file ignored", fsnotify.Event{Name: "grids/.crs.yaml", Op: fsnotify.Write}, false},
		{"non-yaml ignored", fsnotify.Event{Name: "grids/crs.json", Op: fsnotify.Write}, false},
		{"editor swap file ignored", fsnotify.Event{Name: "grids/.crs.yaml.swp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %t, want %t", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcherReimportsOnChange(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewMemoryStore()
	loader := NewLoader(nil)

	w, err := NewWatcher(loader, store, config.GridsConfig{
		Dir:           dir,
		Watch:         true,
		WatchDebounce: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchErr := make(chan error, 1)
	go func() { watchErr <- w.Watch(ctx) }()
	defer func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop: %v", err)
		}
		if err := <-watchErr; err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(50 * time.Millisecond)

	writeGridFile(t, dir, "crs.yaml", validGridYAML)

	deadline := time.After(5 * time.Second)
	for {
		if _, err := store.FindGridByName(context.Background(), "COMPREHENSIVE_RANKING"); err == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("grid was not re-imported after the file change")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	fired := make(chan struct{}, 10)
	for i := 0; i < 5; i++ {
		d.trigger(func() { fired <- struct{}{} })
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("debounced callback never fired")
	}

	select {
	case <-fired:
		t.Error("burst of events fired more than once")
	case <-time.After(100 * time.Millisecond):
	}
}
