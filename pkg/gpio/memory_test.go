package gpio

import (
	"errors"
	"testing"
)

func TestMemoryAcquireRejectsOutOfRangePin(t *testing.T) {
	d := NewMemory()

	for _, pin := range []int{0, 3, 27, -1} {
		if _, err := d.Acquire(pin, Output); !errors.Is(err, ErrInvalidPin) {
			t.Errorf("pin %d: expected ErrInvalidPin, got %v", pin, err)
		}
	}
}

func TestMemoryAcquireRejectsBoundPin(t *testing.T) {
	d := NewMemory()

	if _, err := d.Acquire(17, Output); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Acquire(17, Output); !errors.Is(err, ErrAcquire) {
		t.Errorf("expected ErrAcquire on double acquire, got %v", err)
	}
}

func TestMemoryFailPin(t *testing.T) {
	d := NewMemory()
	d.FailPin(9, ErrAcquire)

	if _, err := d.Acquire(9, InputPullUp); !errors.Is(err, ErrAcquire) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	d.FailPin(9, nil)
	if _, err := d.Acquire(9, InputPullUp); err != nil {
		t.Fatalf("expected acquire after clearing failure, got %v", err)
	}
}

func TestMemoryInputLevels(t *testing.T) {
	d := NewMemory()
	l, err := d.Acquire(12, InputPullUp)
	if err != nil {
		t.Fatal(err)
	}

	if l.IsActive() {
		t.Error("input should be inactive by default")
	}
	d.SetInput(12, true)
	if !l.IsActive() {
		t.Error("input should follow SetInput")
	}
}

func TestMemoryOutputLevels(t *testing.T) {
	d := NewMemory()
	l, err := d.Acquire(21, Output)
	if err != nil {
		t.Fatal(err)
	}

	l.SetLevel(true)
	if !d.Level(21) {
		t.Error("output level not recorded")
	}
	l.SetLevel(false)
	if d.Level(21) {
		t.Error("output level not cleared")
	}
}

func TestMemoryCloseReleasesHeldLines(t *testing.T) {
	d := NewMemory()
	l, err := d.Acquire(21, Output)
	if err != nil {
		t.Fatal(err)
	}
	l.SetLevel(true)

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}

	// A line still held by a device goes dead with the driver.
	l.SetLevel(true)
	if l.IsActive() {
		t.Error("held line should be inert after driver close")
	}
	l.Release()
}

func TestMemoryReleaseIsIdempotent(t *testing.T) {
	d := NewMemory()
	l, err := d.Acquire(5, Output)
	if err != nil {
		t.Fatal(err)
	}

	l.Release()
	l.Release()
	if d.Acquired(5) {
		t.Error("pin should be free after release")
	}
	if _, err := d.Acquire(5, Output); err != nil {
		t.Errorf("released pin should be reacquirable: %v", err)
	}
}
