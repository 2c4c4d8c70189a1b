package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/NeuralTrust/ContentGuard/pkg/domain/errors"
	"github.com/NeuralTrust/ContentGuard/pkg/domain/verdict"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/breaker"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/cache"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/prometheus"
	"github.com/go-redis/redis/v8"
)

const (
	VerdictKeyPattern = "verdict:%s:%s"

	breakerTimeout     = 30 * time.Second
	breakerMaxFailures = 5
)

type VerdictRepository struct {
	cache   cache.Client
	ttl     time.Duration
	breaker breaker.CircuitBreaker
}

func NewVerdictRepository(c cache.Client, ttl time.Duration) verdict.Repository {
	return &VerdictRepository{
		cache:   c,
		ttl:     ttl,
		breaker: breaker.New("verdict-store", breakerTimeout, breakerMaxFailures, redis.Nil),
	}
}

func verdictKey(contentContext, contentID string) string {
	return fmt.Sprintf(VerdictKeyPattern, contentContext, contentID)
}

func (r *VerdictRepository) Save(ctx context.Context, record *verdict.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}
	key := verdictKey(record.Context, record.ContentID)
	err = r.breaker.Execute(func() error {
		return r.cache.Set(ctx, key, string(recordJSON), r.ttl)
	})
	if err != nil {
		prometheus.StoreErrorsTotal.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to save verdict: %w", err)
	}
	return nil
}

func (r *VerdictRepository) Get(ctx context.Context, contentContext, contentID string) (*verdict.Record, error) {
	if err := verdict.ValidateKey(contentContext, contentID); err != nil {
		return nil, err
	}
	key := verdictKey(contentContext, contentID)

	var value string
	err := r.breaker.Execute(func() error {
		var getErr error
		value, getErr = r.cache.Get(ctx, key)
		return getErr
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewNotFoundError(verdict.EntityType, contentContext+":"+contentID)
		}
		prometheus.StoreErrorsTotal.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("failed to get verdict: %w", err)
	}

	var record verdict.Record
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		prometheus.StoreErrorsTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	return &record, nil
}

func (r *VerdictRepository) Delete(ctx context.Context, contentContext, contentID string) error {
	if err := verdict.ValidateKey(contentContext, contentID); err != nil {
		return err
	}
	key := verdictKey(contentContext, contentID)
	err := r.breaker.Execute(func() error {
		return r.cache.Delete(ctx, key)
	})
	if err != nil {
		prometheus.StoreErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("failed to delete verdict: %w", err)
	}
	return nil
}
