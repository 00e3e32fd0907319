package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"intakedocs/internal/domain"
	"intakedocs/internal/service"
	"intakedocs/mocks"
)

func TestExtractQueueWorker_DispatchesClaimedDocuments(t *testing.T) {
	gw := new(mocks.MockDocumentGateway)
	svc := new(mocks.MockExtractionService)

	doc := *testDocument()
	dispatched := make(chan struct{})

	gw.On("ClaimQueued", mock.Anything, 2).Return([]domain.Document{doc}, nil).Once()
	gw.On("ClaimQueued", mock.Anything, mock.Anything).Return([]domain.Document{}, nil)

	svc.On("ExtractDocument", mock.Anything, mock.MatchedBy(func(d *domain.Document) bool {
		return d.ID == doc.ID
	})).Run(func(args mock.Arguments) {
		close(dispatched)
	}).Return(domain.ExtractionResult{DocumentID: doc.ID, Success: true}).Once()

	worker := service.NewExtractQueueWorker(gw, svc, service.ExtractQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("document was not dispatched")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}

	svc.AssertExpectations(t)
}

func TestExtractQueueWorker_ClaimErrorKeepsPolling(t *testing.T) {
	gw := new(mocks.MockDocumentGateway)
	svc := new(mocks.MockExtractionService)

	doc := *testDocument()
	dispatched := make(chan struct{})

	gw.On("ClaimQueued", mock.Anything, mock.Anything).Return(nil, errors.New("gateway down")).Once()
	gw.On("ClaimQueued", mock.Anything, mock.Anything).Return([]domain.Document{doc}, nil).Once()
	gw.On("ClaimQueued", mock.Anything, mock.Anything).Return([]domain.Document{}, nil)

	svc.On("ExtractDocument", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(dispatched)
	}).Return(domain.ExtractionResult{Success: true}).Once()

	worker := service.NewExtractQueueWorker(gw, svc, service.ExtractQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("document was not dispatched after a failed poll")
	}

	cancel()
	<-done
}

func TestExtractQueueWorker_ZeroConfigGetsDefaults(t *testing.T) {
	gw := new(mocks.MockDocumentGateway)
	svc := new(mocks.MockExtractionService)

	// A zero-value config must not panic the ticker or the semaphore.
	worker := service.NewExtractQueueWorker(gw, svc, service.ExtractQueueConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not return on a canceled context")
	}
}

func TestExtractQueueWorker_ShutdownWaitsForInFlight(t *testing.T) {
	gw := new(mocks.MockDocumentGateway)
	svc := new(mocks.MockExtractionService)

	doc := *testDocument()
	started := make(chan struct{})
	var finished bool

	gw.On("ClaimQueued", mock.Anything, mock.Anything).Return([]domain.Document{doc}, nil).Once()
	gw.On("ClaimQueued", mock.Anything, mock.Anything).Return([]domain.Document{}, nil)

	svc.On("ExtractDocument", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		finished = true
	}).Return(domain.ExtractionResult{Success: true}).Once()

	worker := service.NewExtractQueueWorker(gw, svc, service.ExtractQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	<-started
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}

	assert.True(t, finished, "shutdown returned before the in-flight extraction finished")
}
