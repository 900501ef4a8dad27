package endpointwait

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWaitExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcsx2.sock")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Wait(ctx, path, nil); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestWaitCreated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pcsx2.sock")

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(filepath.Join(dir, "other.sock"), nil, 0o600)
		os.WriteFile(path, nil, 0o600)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Wait(ctx, path, nil); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestWaitTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcsx2.sock")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := Waiter{Recheck: 10 * time.Millisecond}.Wait(ctx, path)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want DeadlineExceeded", err)
	}
}

func TestWaitMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "pcsx2.sock")

	if err := Wait(context.Background(), path, nil); err == nil {
		t.Fatal("Wait() expected error for missing directory")
	}
}
