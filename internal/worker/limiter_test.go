package worker

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("vault/a.md") {
			t.Fatalf("expected unlimited reads, denied at %d", i)
		}
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "vault/a.md"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "other/b.md"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerDirectory(t *testing.T) {
	// 1 read per second, burst 1
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("vault/a.md") {
		t.Error("expected first read to pass")
	}
	// Same directory shares the bucket
	if limiter.Allow("vault/b.md") {
		t.Error("expected second read in the same directory to be throttled")
	}
	if !limiter.Allow("vault/sub/c.md") {
		t.Error("expected a different directory to pass")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	_ = limiter.Allow("vault/a.md")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx, "vault/a.md"); err == nil {
		t.Error("expected error waiting with a cancelled context")
	}
}

func TestDirKey(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"vault/a.md", "vault"},
		{"vault/./sub/../b.md", "vault"},
		{"a.md", "."},
		{filepath.Join("x", "y", "z.md"), filepath.Join("x", "y")},
	}
	for _, tt := range tests {
		if got := dirKey(tt.path); got != tt.want {
			t.Errorf("dirKey(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
