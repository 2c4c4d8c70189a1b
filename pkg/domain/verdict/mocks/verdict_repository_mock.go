package mocks

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/ContentGuard/pkg/domain/verdict"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, record *verdict.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, contentContext, contentID string) (*verdict.Record, error) {
	args := m.Called(ctx, contentContext, contentID)
	record, ok := args.Get(0).(*verdict.Record)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *verdict.Record, got %T", args.Get(0))
	}
	return record, args.Error(1)
}

func (m *Repository) Delete(ctx context.Context, contentContext, contentID string) error {
	args := m.Called(ctx, contentContext, contentID)
	return args.Error(0)
}
