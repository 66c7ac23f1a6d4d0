package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hireloop/hireloop/internal/domain/job"
	"github.com/hireloop/hireloop/internal/domain/user"
	kafkax "github.com/hireloop/hireloop/internal/repository/kafka"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Runner consumes hiring events and emails the owner of the affected posting.
type Runner struct {
	log   *zap.Logger
	cons  *kafkax.Consumer
	mail  *Mailer
	jobs  job.Repo
	users user.Repo

	mConsumed prometheus.Counter
	mSent     prometheus.Counter
	mErrors   prometheus.Counter
}

func NewRunner(
	log *zap.Logger,
	cons *kafkax.Consumer,
	mail *Mailer,
	jobs job.Repo,
	users user.Repo,
) *Runner {
	return &Runner{
		log:   log,
		cons:  cons,
		mail:  mail,
		jobs:  jobs,
		users: users,
		mConsumed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "notifier_messages_consumed_total",
			Help: "Hiring events consumed",
		}),
		mSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "notifier_emails_sent_total",
			Help: "Emails sent",
		}),
		mErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "notifier_errors_total",
			Help: "Errors",
		}),
	}
}

func (r *Runner) Run(ctx context.Context) error {
	candidateH := kafkax.JSONHandler(func(ctx context.Context, _ []byte, ev *kafkax.CandidateCreated) error {
		return r.handleCandidateCreated(ctx, ev)
	})
	analysisH := kafkax.JSONHandler(func(ctx context.Context, _ []byte, ev *kafkax.AnalysisCompleted) error {
		return r.handleAnalysisCompleted(ctx, ev)
	})

	handler := func(ctx context.Context, key, value []byte) error {
		r.mConsumed.Inc()

		var env struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(value, &env); err != nil {
			r.log.Warn("undecodable event; skipping", zap.Error(err))
			return nil
		}
		switch env.Event {
		case kafkax.EventCandidateCreated:
			return candidateH(ctx, key, value)
		case kafkax.EventAnalysisCompleted:
			return analysisH(ctx, key, value)
		default:
			r.log.Warn("unknown event; skipping", zap.String("event", env.Event))
			return nil
		}
	}

	if err := r.cons.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		r.mErrors.Inc()
		r.log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return ctx.Err()
}

func (r *Runner) handleCandidateCreated(ctx context.Context, ev *kafkax.CandidateCreated) error {
	if ev.JobID <= 0 {
		r.log.Warn("candidate-created: bad job_id", zap.Int64("job_id", ev.JobID))
		return nil
	}

	owner, j, err := r.owner(ctx, ev.JobID)
	if err != nil {
		r.mErrors.Inc()
		return err
	}

	subject := fmt.Sprintf("New candidate for %q", j.Title)
	body := fmt.Sprintf(
		"Hello!\n\n%s applied to your posting %q at %s.\n\nThe Hireloop team",
		ev.Name, j.Title, ev.At.UTC().Format(time.RFC3339),
	)
	if err := r.mail.Send(ctx, owner.Email, subject, body); err != nil {
		r.mErrors.Inc()
		return fmt.Errorf("send email: %w", err)
	}
	r.mSent.Inc()
	return nil
}

func (r *Runner) handleAnalysisCompleted(ctx context.Context, ev *kafkax.AnalysisCompleted) error {
	if ev.JobID <= 0 {
		r.log.Warn("analysis-completed: bad job_id", zap.Int64("job_id", ev.JobID))
		return nil
	}

	owner, j, err := r.owner(ctx, ev.JobID)
	if err != nil {
		r.mErrors.Inc()
		return err
	}

	subject := fmt.Sprintf("Resume analysis ready for %q", j.Title)
	body := fmt.Sprintf(
		"Hello!\n\nA resume scored %.1f against your posting %q at %s.\n\nThe Hireloop team",
		ev.Score, j.Title, ev.At.UTC().Format(time.RFC3339),
	)
	if err := r.mail.Send(ctx, owner.Email, subject, body); err != nil {
		r.mErrors.Inc()
		return fmt.Errorf("send email: %w", err)
	}
	r.mSent.Inc()
	return nil
}

func (r *Runner) owner(ctx context.Context, jobID int64) (*user.User, *job.Job, error) {
	j, err := r.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, nil, fmt.Errorf("get job: %w", err)
	}
	u, err := r.users.GetByID(ctx, j.CreatedBy)
	if err != nil {
		return nil, nil, fmt.Errorf("get job owner: %w", err)
	}
	return u, j, nil
}
