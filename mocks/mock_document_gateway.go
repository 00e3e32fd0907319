package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"intakedocs/internal/domain"
	"intakedocs/internal/port"
)

// MockDocumentGateway is a mock implementation of port.DocumentGateway.
type MockDocumentGateway struct {
	mock.Mock
}

func (m *MockDocumentGateway) GetDocument(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentGateway) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockDocumentGateway) UpdateDocumentStatus(ctx context.Context, docID uuid.UUID, update port.StatusUpdate) error {
	args := m.Called(ctx, docID, update)
	return args.Error(0)
}

func (m *MockDocumentGateway) SaveExtractedField(ctx context.Context, submissionID, docID uuid.UUID, field domain.ExtractedField) error {
	args := m.Called(ctx, submissionID, docID, field)
	return args.Error(0)
}

func (m *MockDocumentGateway) ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}
