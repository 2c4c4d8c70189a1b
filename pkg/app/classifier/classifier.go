package classifier

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/NeuralTrust/ContentGuard/pkg/domain/verdict"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
	"github.com/NeuralTrust/ContentGuard/pkg/moderation"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultContext = "general"

var (
	ErrEmptyBatch    = errors.New("batch must contain at least one item")
	ErrBatchTooLarge = errors.New("batch exceeds the maximum size")
)

// Input is one text to classify. A nil Text is treated as absent content.
type Input struct {
	Text      *string
	Context   string
	ContentID string
}

type Result struct {
	ID          string             `json:"id"`
	Context     string             `json:"context"`
	ContentID   string             `json:"content_id,omitempty"`
	Verdict     moderation.Verdict `json:"verdict"`
	Stored      bool               `json:"stored"`
	ProcessedAt time.Time          `json:"processed_at"`
}

type GateResult struct {
	Result
	SanitizedText string `json:"sanitized_text"`
	AllowPost     bool   `json:"allow_post"`
}

type Classifier interface {
	Classify(ctx context.Context, in Input) (*Result, error)
	Gate(ctx context.Context, in Input) (*GateResult, error)
	ClassifyBatch(ctx context.Context, items []Input) ([]*Result, error)
}

type classifier struct {
	logger       *logrus.Logger
	engine       *moderation.Engine
	repo         verdict.Repository
	worker       metrics.Worker
	maxBatchSize int
}

// NewClassifier builds the classification service. repo may be nil when
// the verdict store is disabled.
func NewClassifier(
	logger *logrus.Logger,
	engine *moderation.Engine,
	repo verdict.Repository,
	worker metrics.Worker,
	maxBatchSize int,
) Classifier {
	return &classifier{
		logger:       logger,
		engine:       engine,
		repo:         repo,
		worker:       worker,
		maxBatchSize: maxBatchSize,
	}
}

func (c *classifier) Classify(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	v := c.engine.ClassifyValue(in.Text)
	return c.finish(ctx, in, v, metric_events.SourceAPI, start), nil
}

func (c *classifier) Gate(ctx context.Context, in Input) (*GateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	gated := c.engine.ClassifyValueAndGate(in.Text)
	res := c.finish(ctx, in, gated.Verdict, metric_events.SourceAPI, start)
	return &GateResult{
		Result:        *res,
		SanitizedText: gated.SanitizedText,
		AllowPost:     gated.AllowPost,
	}, nil
}

// ClassifyBatch classifies items concurrently. Results keep input order.
func (c *classifier) ClassifyBatch(ctx context.Context, items []Input) ([]*Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if c.maxBatchSize > 0 && len(items) > c.maxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make([]*Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range items {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			v := c.engine.ClassifyValue(items[i].Text)
			results[i] = c.finish(gctx, items[i], v, metric_events.SourceBatch, start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *classifier) finish(
	ctx context.Context,
	in Input,
	v moderation.Verdict,
	source string,
	start time.Time,
) *Result {
	latency := time.Since(start)
	res := &Result{
		ID:          uuid.New().String(),
		Context:     in.Context,
		ContentID:   in.ContentID,
		Verdict:     v,
		ProcessedAt: time.Now().UTC(),
	}
	if res.Context == "" {
		res.Context = DefaultContext
	}

	text := ""
	if in.Text != nil {
		text = *in.Text
	}
	textHash := ""
	if text != "" {
		textHash = metric_events.HashText(text)
	}

	if v.ShouldBlock() {
		c.logger.WithFields(logrus.Fields{
			"id":          res.ID,
			"context":     res.Context,
			"content_id":  res.ContentID,
			"reason":      v.Reason,
			"rule":        v.Rule,
			"text_length": len(text),
		}).Warn("content blocked")
	}

	if c.repo != nil && res.ContentID != "" {
		record := &verdict.Record{
			ID:          res.ID,
			Context:     res.Context,
			ContentID:   res.ContentID,
			Verdict:     v,
			TextHash:    textHash,
			ProcessedAt: res.ProcessedAt,
		}
		if err := c.repo.Save(ctx, record); err != nil {
			c.logger.WithFields(logrus.Fields{
				"context":    res.Context,
				"content_id": res.ContentID,
			}).WithError(err).Error("failed to store verdict")
		} else {
			res.Stored = true
		}
	}

	if c.worker != nil {
		c.worker.Process(newVerdictEvent(res, source, textHash, len(text), latency))
	}
	return res
}

func newVerdictEvent(res *Result, source, textHash string, textLength int, latency time.Duration) *metric_events.Event {
	evt := metric_events.NewVerdictEvent(source)
	evt.Context = res.Context
	evt.ContentID = res.ContentID
	evt.Severity = res.Verdict.Severity.String()
	evt.Reason = res.Verdict.Reason
	evt.Rule = res.Verdict.Rule
	evt.Flags = res.Verdict.Flags.Names()
	evt.TextHash = textHash
	evt.TextLength = textLength
	evt.LatencyMs = float64(latency.Microseconds()) / 1000
	evt.Timestamp = res.ProcessedAt.Unix()
	if len(res.Verdict.Scores) > 0 {
		evt.Scores = make(map[string]float64, len(res.Verdict.Scores))
		for category, score := range res.Verdict.Scores {
			evt.Scores[string(category)] = score
		}
	}
	return evt
}
