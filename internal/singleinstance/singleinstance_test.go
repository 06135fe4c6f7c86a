package singleinstance

import (
	"path/filepath"
	"testing"
)

func TestAcquireThenSecondFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capsicain.lock")

	first, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire (first): %v", err)
	}
	defer first.Close()

	if _, err := Acquire(path); err != ErrAlreadyRunning {
		t.Errorf("Acquire (second) = %v, want ErrAlreadyRunning", err)
	}
}

func TestCloseThenReacquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capsicain.lock")

	first, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire after Close: %v", err)
	}
	defer second.Close()
}
