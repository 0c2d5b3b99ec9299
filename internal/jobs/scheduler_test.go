package jobs

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSchedulerStop_SignalsCompletion(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil, nil, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	select {
	case <-s.Stop().Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop context never completed with no jobs running")
	}
}

func TestSchedulerStop_WithoutStart(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil, nil, zerolog.Nop())

	select {
	case <-s.Stop().Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop context never completed for an idle scheduler")
	}
}
