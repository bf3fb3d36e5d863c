package logger

import "testing"

func TestNewLevels(t *testing.T) {
	l, err := New("debug", "console")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !l.Desugar().Core().Enabled(-1) {
		t.Fatalf("debug level should be enabled")
	}
	l, err = New("bogus", "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Desugar().Core().Enabled(0) {
		t.Fatalf("unknown level should fall back to warn")
	}
}

func TestGetDefaultsToNop(t *testing.T) {
	globalLogger = nil
	l := Get().With("run_id", "x")
	l.Infow("discarded")
	if Get() == nil {
		t.Fatalf("Get returned nil")
	}
}
