package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

func TestSweeper_Sweep(t *testing.T) {
	mockRepo := new(MockRepository)
	s := NewSweeper(mockRepo, 24*time.Hour)

	mockRepo.On("ExpirePending", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		// The cutoff sits roughly one TTL in the past.
		age := time.Since(cutoff)
		return age > 23*time.Hour && age < 25*time.Hour
	})).Return(int64(2), nil)

	s.sweep(context.Background())

	mockRepo.AssertExpectations(t)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	mockRepo := new(MockRepository)
	s := NewSweeper(mockRepo, time.Hour)
	s.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	mockRepo.On("ExpirePending", mock.Anything, mock.Anything).Return(int64(0), nil)

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}
