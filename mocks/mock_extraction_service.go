package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"intakedocs/internal/domain"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) ProcessDocument(ctx context.Context, docID uuid.UUID) domain.ExtractionResult {
	args := m.Called(ctx, docID)
	return args.Get(0).(domain.ExtractionResult)
}

func (m *MockExtractionService) ProcessSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.SubmissionResult, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionResult), args.Error(1)
}

func (m *MockExtractionService) ExtractDocument(ctx context.Context, doc *domain.Document) domain.ExtractionResult {
	args := m.Called(ctx, doc)
	return args.Get(0).(domain.ExtractionResult)
}
