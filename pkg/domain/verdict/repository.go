package verdict

import "context"

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=verdict_repository_mock.go --case=underscore
type Repository interface {
	Save(ctx context.Context, record *Record) error
	Get(ctx context.Context, contentContext, contentID string) (*Record, error)
	Delete(ctx context.Context, contentContext, contentID string) error
}
