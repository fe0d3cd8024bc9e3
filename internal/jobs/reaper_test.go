package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockCanceller struct {
	mock.Mock
}

func (m *mockCanceller) CancelStale(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func TestTickSweeps(t *testing.T) {
	canceller := new(mockCanceller)
	canceller.On("CancelStale", mock.Anything).Return([]string{"b1", "b2"}, nil).Once()

	NewReaper(canceller, time.Minute).Tick(context.Background())

	canceller.AssertExpectations(t)
}

func TestTickSurvivesSweepError(t *testing.T) {
	canceller := new(mockCanceller)
	canceller.On("CancelStale", mock.Anything).Return(nil, errors.New("db down")).Once()

	NewReaper(canceller, time.Minute).Tick(context.Background())

	canceller.AssertExpectations(t)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	canceller := new(mockCanceller)
	canceller.On("CancelStale", mock.Anything).Return(nil, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewReaper(canceller, 5*time.Millisecond).Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("reaper did not stop after cancel")
	}
}

func TestNewReaperDefaultsInterval(t *testing.T) {
	r := NewReaper(new(mockCanceller), 0)
	if r.interval != 5*time.Minute {
		t.Fatalf("expected 5m default, got %s", r.interval)
	}
}
