package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hireloop/hireloop/internal/domain/outbox"
	"github.com/hireloop/hireloop/internal/obs/retry"
	kafkax "github.com/hireloop/hireloop/internal/repository/kafka"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

// Payloads stored in the outbox table. They are written inside the same
// transaction as the row that caused them and replayed by the runner.
type CandidateCreatedPayload struct {
	CandidateID int64     `json:"candidate_id"`
	JobID       int64     `json:"job_id"`
	Name        string    `json:"name"`
	At          time.Time `json:"at"`
}

type AnalysisCompletedPayload struct {
	ResumeID int64     `json:"resume_id"`
	JobID    int64     `json:"job_id"`
	Score    float64   `json:"score"`
	At       time.Time `json:"at"`
}

var (
	outboxHandlerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_handler_latency_seconds",
		Help:    "Latency of outbox handlers (publish, http, etc.)",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	outboxHandlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_handler_errors_total",
		Help: "Errors in outbox handlers (after retries).",
	}, []string{"kind"})
)

func instrument(kind string, h outbox.KindHandler, pol retry.Policy) outbox.KindHandler {
	tr := otel.Tracer("outbox.handler")
	if pol.Name == "" {
		pol.Name = "outbox_" + kind
	}
	return func(ctx context.Context, data []byte) error {
		ctx, span := tr.Start(ctx, "outbox.handle")
		defer span.End()

		start := time.Now()
		err := retry.Do(ctx, func() error { return h(ctx, data) }, pol)
		outboxHandlerLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			outboxHandlerErrors.WithLabelValues(kind).Inc()
		}
		return err
	}
}

// MakeGlobalOutboxHandler maps outbox kinds to their kafka publishers.
func MakeGlobalOutboxHandler(pub *kafkax.HiringEventsKafka, pol retry.Policy) outbox.GlobalHandler {
	return func(kind outbox.Kind) (outbox.KindHandler, error) {
		switch kind {
		case outbox.KindCandidateCreated:
			base := func(ctx context.Context, data []byte) error {
				var p CandidateCreatedPayload
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("unmarshal candidate-created payload: %w", err)
				}
				return pub.PublishCandidateCreated(ctx, kafkax.CandidateCreated{
					CandidateID: p.CandidateID,
					JobID:       p.JobID,
					Name:        p.Name,
					At:          p.At,
				})
			}
			return instrument("candidate_created", base, pol), nil

		case outbox.KindAnalysisCompleted:
			base := func(ctx context.Context, data []byte) error {
				var p AnalysisCompletedPayload
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("unmarshal analysis-completed payload: %w", err)
				}
				return pub.PublishAnalysisCompleted(ctx, kafkax.AnalysisCompleted{
					ResumeID: p.ResumeID,
					JobID:    p.JobID,
					Score:    p.Score,
					At:       p.At,
				})
			}
			return instrument("analysis_completed", base, pol), nil

		default:
			return nil, fmt.Errorf("unsupported outbox kind: %d", kind)
		}
	}
}
