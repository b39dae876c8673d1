package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	membershipregistry "shield/contexts/governance/membership-registry"
	registrypostgres "shield/contexts/governance/membership-registry/adapters/postgres"
	registrycommands "shield/contexts/governance/membership-registry/application/commands"
	registryworkers "shield/contexts/governance/membership-registry/application/workers"
	registryports "shield/contexts/governance/membership-registry/ports"
	votingengine "shield/contexts/governance/voting-engine"
	votingpostgres "shield/contexts/governance/voting-engine/adapters/postgres"
	votingworkers "shield/contexts/governance/voting-engine/application/workers"
	votingports "shield/contexts/governance/voting-engine/ports"
	"shield/internal/platform/config"
	"shield/internal/platform/db"
	"shield/internal/platform/httpserver"
	"shield/internal/platform/messaging"
	"shield/internal/platform/signing"
	"shield/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	registryRelay registryworkers.OutboxRelay
	votingRelay   votingworkers.OutboxRelay
	enableRelay   bool
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	signer, err := signing.New(cfg.SigningSeed)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	registryRepo := registrypostgres.NewRepository(pg.DB, cfg.CohortID, logger)
	registryModule := membershipregistry.NewModule(membershipregistry.Dependencies{
		Tokens:       registryRepo,
		Outbox:       registryRepo,
		Signer:       signer,
		Clock:        registrypostgres.SystemClock{},
		IDGen:        registrypostgres.UUIDGenerator{},
		AdminAccount: cfg.AdminAccount,
		MintPolicy:   registrycommands.MintPolicy(cfg.MintPolicy),
		Logger:       logger,
	})

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	votingModule := votingengine.NewModule(votingengine.Dependencies{
		Proposals: votingRepo,
		Holders:   holderDirectory{tokens: registryRepo},
		Outbox:    votingRepo,
		Clock:     votingpostgres.SystemClock{},
		IDGen:     votingpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	server := httpserver.New(registryModule, votingModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	registryRepo := registrypostgres.NewRepository(pg.DB, cfg.CohortID, logger)
	votingRepo := votingpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		registryRelay: registryworkers.OutboxRelay{
			Outbox:    registryRepo,
			Publisher: registryPublisher{bus: kafka},
			Clock:     registrypostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		votingRelay: votingworkers.OutboxRelay{
			Outbox:    votingRepo,
			Publisher: votingPublisher{bus: kafka},
			Clock:     votingpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		enableRelay:  cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"relay_enabled", w.enableRelay,
	)

	for {
		if w.enableRelay {
			if err := w.registryRelay.RunOnce(ctx); err != nil {
				return err
			}
			if err := w.votingRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// holderDirectory adapts the registry repository to the voting engine's view
// of membership. Wiring the two modules together happens only here.
type holderDirectory struct {
	tokens registryports.TokenRepository
}

func (d holderDirectory) IsHolder(ctx context.Context, accountID string) (bool, error) {
	return d.tokens.IsHolder(ctx, accountID)
}

func (d holderDirectory) LiveHolderCount(ctx context.Context) (int, error) {
	return d.tokens.HolderCount(ctx)
}

var _ votingports.HolderDirectory = holderDirectory{}

type registryPublisher struct {
	bus *messaging.Kafka
}

func (p registryPublisher) Publish(ctx context.Context, topic string, event registryports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, events.Envelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    event.SourceService,
		TraceID:          event.TraceID,
		SchemaVersion:    event.SchemaVersion,
		PartitionKeyPath: event.PartitionKeyPath,
		PartitionKey:     event.PartitionKey,
		Data:             event.Data,
	})
}

type votingPublisher struct {
	bus *messaging.Kafka
}

func (p votingPublisher) Publish(ctx context.Context, topic string, event votingports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, events.Envelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    event.SourceService,
		TraceID:          event.TraceID,
		SchemaVersion:    event.SchemaVersion,
		PartitionKeyPath: event.PartitionKeyPath,
		PartitionKey:     event.PartitionKey,
		Data:             event.Data,
	})
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
