package logger

import (
	"context"
	"errors"
	"testing"
)

func TestGet(t *testing.T) {
	log := Get()
	if log == nil {
		t.Fatal("logger is nil")
	}

	// Get must hand back the same instance.
	if Get() != log {
		t.Fatal("Get returned a different logger on second call")
	}

	ctx := context.Background()
	log.Info(ctx, "test message", String("k", "v"), Int("n", 1))
}

func TestNamed(t *testing.T) {
	named := Get().Named("test")
	if named == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	named.Info(ctx, "test message", Bool("flag", true))
}

func TestSetLevelString(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", " INFO "} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q): %v", level, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("SetLevelString accepted an unknown level")
	}
	if err := SetLevelString("info"); err != nil {
		t.Fatalf("restore level: %v", err)
	}
}

func TestFields(t *testing.T) {
	f := Error(errors.New("boom"))
	if f.Key != "error" {
		t.Errorf("Error field key = %q, want error", f.Key)
	}
	if got := Float64("score", 7.25); got.Value != 7.25 {
		t.Errorf("Float64 value = %v, want 7.25", got.Value)
	}
	if got := Any("v", []int{1}); got.Key != "v" {
		t.Errorf("Any key = %q, want v", got.Key)
	}
}
