package store

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/dockgrid/pkg/observability"
)

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	if err := s.Save(ctx, "key", []byte("value")); err != nil {
		t.Errorf("Save error: %v", err)
	}
	data, ok, err := s.Load(ctx, "key")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if ok || data != nil {
		t.Error("NullStore should not store data")
	}
	if err := s.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestBackends(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T) Store
	}{
		{"memory", func(t *testing.T) Store { return NewMemoryStore() }},
		{"file", func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			return s
		}},
		{"diskv", func(t *testing.T) Store { return NewDiskvStore(t.TempDir(), 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := tt.open(t)
			defer s.Close()

			if _, ok, err := s.Load(ctx, "layout:missing"); err != nil || ok {
				t.Fatalf("Load(missing) = %v, %v", ok, err)
			}

			if err := s.Save(ctx, "layout:a", []byte("first")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := s.Save(ctx, "layout:a", []byte("second")); err != nil {
				t.Fatalf("Save overwrite: %v", err)
			}
			data, ok, err := s.Load(ctx, "layout:a")
			if err != nil || !ok {
				t.Fatalf("Load = %v, %v", ok, err)
			}
			if !bytes.Equal(data, []byte("second")) {
				t.Errorf("Load = %q, want %q", data, "second")
			}

			if err := s.Delete(ctx, "layout:a"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, ok, _ := s.Load(ctx, "layout:a"); ok {
				t.Error("key still present after Delete")
			}
			if err := s.Delete(ctx, "layout:a"); err != nil {
				t.Errorf("Delete(absent) = %v", err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := []byte("abc")
	_ = s.Save(ctx, "k", in)
	in[0] = 'x'

	out, _, _ := s.Load(ctx, "k")
	if string(out) != "abc" {
		t.Errorf("stored data aliased caller slice: %q", out)
	}
	out[1] = 'y'
	again, _, _ := s.Load(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("loaded data aliased stored slice: %q", again)
	}
	if keys := s.Keys(); len(keys) != 1 || keys[0] != "k" {
		t.Errorf("Keys = %v", keys)
	}
}

func TestKeyers(t *testing.T) {
	k := NewDefaultKeyer()
	if got := k.LayoutKey("work"); got != "layout:work" {
		t.Errorf("LayoutKey = %q", got)
	}
	if got := k.LayoutKey(""); got != "layout:default" {
		t.Errorf("LayoutKey(\"\") = %q", got)
	}

	scoped := NewScopedKeyer(nil, "user:abc:")
	if got := scoped.LayoutKey("work"); got != "user:abc:layout:work" {
		t.Errorf("scoped LayoutKey = %q", got)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()
	transient := errors.New("connection reset")

	t.Run("retries retryable errors", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return Retryable(transient)
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return transient
		})
		if !errors.Is(err, transient) || calls != 1 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return Retryable(transient)
		})
		if !IsRetryable(err) || calls != 3 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})
}

type countingHooks struct {
	observability.NoopStoreHooks
	loads, saves atomic.Int32
}

func (h *countingHooks) OnLoad(context.Context, string, bool, time.Duration, error) { h.loads.Add(1) }
func (h *countingHooks) OnSave(context.Context, string, int, time.Duration, error)  { h.saves.Add(1) }

func TestOpenInstrumentsBackend(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s, err := Open(ctx, Options{Backend: BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Save(ctx, "k", []byte("v"))
	_, _, _ = s.Load(ctx, "k")

	if hooks.saves.Load() != 1 || hooks.loads.Load() != 1 {
		t.Errorf("hooks saw %d saves, %d loads", hooks.saves.Load(), hooks.loads.Load())
	}

	if _, err := Open(ctx, Options{Backend: "etcd"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
