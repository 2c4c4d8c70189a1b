package classifier

import (
	"context"
	"errors"

	"github.com/NeuralTrust/ContentGuard/pkg/domain/verdict"
)

var ErrStoreDisabled = errors.New("verdict store is disabled")

type Finder interface {
	Find(ctx context.Context, contentContext, contentID string) (*verdict.Record, error)
}

type finder struct {
	repo verdict.Repository
}

func NewFinder(repo verdict.Repository) Finder {
	return &finder{repo: repo}
}

func (f *finder) Find(ctx context.Context, contentContext, contentID string) (*verdict.Record, error) {
	if f.repo == nil {
		return nil, ErrStoreDisabled
	}
	return f.repo.Get(ctx, contentContext, contentID)
}
