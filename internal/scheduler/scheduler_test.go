package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJobFunc(t *testing.T) {
	called := false
	j := JobFunc{JobName: "probe", Fn: func(ctx context.Context) error {
		called = true
		return errors.New("boom")
	}}

	if j.Name() != "probe" {
		t.Errorf("Name = %q, want probe", j.Name())
	}
	if err := j.Run(context.Background()); err == nil {
		t.Error("Run should pass through the error")
	}
	if !called {
		t.Error("Fn not invoked")
	}
}

func TestAddJob(t *testing.T) {
	noop := JobFunc{JobName: "noop", Fn: func(ctx context.Context) error { return nil }}

	t.Run("accepts valid specs", func(t *testing.T) {
		s := New(context.Background(), quietLogger())
		for _, spec := range []string{"@hourly", "@every 30m", "0 3 * * *"} {
			if err := s.AddJob(spec, noop); err != nil {
				t.Errorf("AddJob(%q): %v", spec, err)
			}
		}
	})

	t.Run("rejects malformed spec", func(t *testing.T) {
		s := New(context.Background(), quietLogger())
		if err := s.AddJob("not a schedule", noop); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestStartStop(t *testing.T) {
	s := New(context.Background(), quietLogger())
	if err := s.AddJob("@hourly", JobFunc{JobName: "noop", Fn: func(ctx context.Context) error { return nil }}); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	s.Start()
	s.Stop() // must not hang with no runs in flight
}
