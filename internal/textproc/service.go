package textproc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/dispatch"
	"github.com/fyrsmithlabs/scholard/internal/logging"
)

const tracerName = "github.com/fyrsmithlabs/scholard/internal/textproc"
const meterName = "textproc"

// Service runs Transformer operations behind the dispatch latency boundary.
type Service struct {
	transformer *Transformer
	runner      *dispatch.Runner

	tracer trace.Tracer
	meter  metric.Meter

	callCounter  metric.Int64Counter
	callDuration metric.Float64Histogram
	inputLength  metric.Int64Histogram
}

// NewService creates a Service. A nil transformer uses the default tables and
// a nil runner applies no delay.
func NewService(t *Transformer, runner *dispatch.Runner) (*Service, error) {
	if t == nil {
		t = DefaultTransformer()
	}
	s := &Service{
		transformer: t,
		runner:      runner,
		tracer:      otel.Tracer(tracerName),
		meter:       otel.Meter(meterName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return s, nil
}

// Transformer returns the underlying engine.
func (s *Service) Transformer() *Transformer {
	return s.transformer
}

// Flashcards generates flashcards from text.
func (s *Service) Flashcards(ctx context.Context, text string) ([]Flashcard, error) {
	return observe(ctx, s, "flashcards", text, func() []Flashcard {
		return s.transformer.GenerateFlashcards(text)
	})
}

// Flowchart generates a flowchart from text.
func (s *Service) Flowchart(ctx context.Context, text string) (Flowchart, error) {
	return observe(ctx, s, "flowchart", text, func() Flowchart {
		return s.transformer.GenerateFlowchart(text)
	})
}

// Simplify rewrites text in plainer words.
func (s *Service) Simplify(ctx context.Context, text string) (SimplifiedContent, error) {
	return observe(ctx, s, "simplify", text, func() SimplifiedContent {
		return s.transformer.SimplifyText(text)
	})
}

// Concepts extracts a concept map from text.
func (s *Service) Concepts(ctx context.Context, text string) (ConceptMap, error) {
	return observe(ctx, s, "concepts", text, func() ConceptMap {
		return s.transformer.ExtractConcepts(text)
	})
}

func observe[T any](ctx context.Context, s *Service, op, text string, fn func() T) (T, error) {
	ctx, span := s.tracer.Start(ctx, "textproc."+op,
		trace.WithAttributes(
			attribute.String("operation", op),
			attribute.Int("content_length", len(text)),
		),
	)
	defer span.End()

	start := time.Now()
	attrs := metric.WithAttributes(attribute.String("operation", op))
	s.inputLength.Record(ctx, int64(len(text)), attrs)

	result, err := dispatch.Do(ctx, s.runner, op, fn)
	elapsed := time.Since(start)
	TransformDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	s.callDuration.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		span.RecordError(err)
		TransformsTotal.WithLabelValues(op, "cancelled").Inc()
		logging.FromContext(ctx).Debug(ctx, "transform abandoned",
			zap.String("operation", op),
			zap.Error(err),
		)
		return result, fmt.Errorf("%s: %w", op, err)
	}

	TransformsTotal.WithLabelValues(op, "ok").Inc()
	s.callCounter.Add(ctx, 1, attrs)
	logging.FromContext(ctx).Debug(ctx, "transform completed",
		zap.String("operation", op),
		zap.Duration("duration", elapsed),
	)
	return result, nil
}

// initMetrics initializes OpenTelemetry metrics
func (s *Service) initMetrics() error {
	var err error

	s.callCounter, err = s.meter.Int64Counter(
		"textproc.operations_total",
		metric.WithDescription("Total number of completed transform operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create operations counter: %w", err)
	}

	s.callDuration, err = s.meter.Float64Histogram(
		"textproc.duration_seconds",
		metric.WithDescription("Time spent on transform operations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	s.inputLength, err = s.meter.Int64Histogram(
		"textproc.input_length",
		metric.WithDescription("Length of transform input in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(64, 256, 1024, 4096, 16384, 65536),
	)
	if err != nil {
		return fmt.Errorf("failed to create input length histogram: %w", err)
	}

	return nil
}
