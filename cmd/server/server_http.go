package main

import (
	"context"
	"net/http"
	"time"

	"github.com/hireloop/hireloop/internal/analysis"
	config "github.com/hireloop/hireloop/internal/config/server"
	intoutbox "github.com/hireloop/hireloop/internal/outbox"
	"github.com/hireloop/hireloop/internal/obs/retry"
	kafkax "github.com/hireloop/hireloop/internal/repository/kafka"
	pg "github.com/hireloop/hireloop/internal/repository/postgres"
	"github.com/hireloop/hireloop/internal/services/server/auth"
	"github.com/hireloop/hireloop/internal/services/server/candidate"
	"github.com/hireloop/hireloop/internal/services/server/httpx"
	"github.com/hireloop/hireloop/internal/services/server/job"
	"github.com/hireloop/hireloop/internal/services/server/resume"
	"github.com/hireloop/hireloop/internal/storage"
	"github.com/hireloop/hireloop/internal/token"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type app struct {
	httpSrv      *http.Server
	outboxRunner *intoutbox.Runner
	producer     *kafkax.Producer
}

func (a *app) Close() {
	_ = a.producer.Close()
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *pg.DB) (*app, error) {
	users := pg.NewUserRepo(db)
	refreshTokens := pg.NewRefreshTokenRepo(db)
	jobs := pg.NewJobRepo(db)
	candidates := pg.NewCandidateRepo(db)
	resumes := pg.NewResumeRepo(db)
	outboxRepo := pg.NewOutboxRepo(db)
	tx := pg.NewTransactor(db, logger)

	codec := token.New(token.Config{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})

	blobs, err := storage.NewS3BlobStore(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	analyzer := analysis.NewClient(cfg.Analysis)

	producer := kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(logger)
	events := kafkax.NewHiringEventsKafka(producer)
	dispatch := intoutbox.MakeGlobalOutboxHandler(events, retry.DefaultPublishPolicy(logger))
	runner := intoutbox.NewOutboxRunner(
		logger, outboxRepo, dispatch,
		cfg.Outbox.Workers, cfg.Outbox.BatchSize, cfg.Outbox.WaitTime, cfg.Outbox.InProgressTTL,
	)

	authUC := auth.NewUsecase(users, refreshTokens, codec, tx)
	authCtl := auth.NewController(authUC, logger)

	jobCtl := job.NewController(job.NewUsecase(jobs), logger)
	candCtl := candidate.NewController(candidate.NewUsecase(candidates, jobs, outboxRepo, tx), logger)
	resumeCtl := resume.NewController(resume.NewUsecase(
		resumes, jobs, blobs, analyzer, outboxRepo, tx, cfg.Uploads.MaxBytes,
	), logger)

	mux := http.NewServeMux()
	authCtl.Register(mux)
	jobCtl.Register(mux, authCtl.RequireAuth)
	candCtl.Register(mux, authCtl.RequireAuth)
	resumeCtl.Register(mux, authCtl.RequireAuth)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		hctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		if err := db.Pool.Ping(hctx); err != nil {
			http.Error(w, "unhealthy: db", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	handler := otelhttp.NewHandler(
		httpx.Recover(logger, httpx.Instrument(logger, mux)),
		"hireloop.http",
	)

	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	return &app{httpSrv: httpSrv, outboxRunner: runner, producer: producer}, nil
}
