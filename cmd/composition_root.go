package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpin "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/inmem"
	"freight/internal/adapters/out/partners"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/loadrepo"
	"freight/internal/adapters/out/postgres/workflowrepo"
	redisout "freight/internal/adapters/out/redis"
	"freight/internal/core/application/engine"
	"freight/internal/core/application/notifications"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/ports"
	"freight/internal/jobs"
	"freight/internal/pkg/metrics"
	"freight/internal/pkg/retry"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config  Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	engine  *engine.Engine

	gormDB      *gorm.DB
	redisClient *redis.Client
}

// NewCompositionRoot opens the configured backends and builds the engine.
// Without DB_HOST workflows live in memory; without REDIS_ADDR notifications
// are only logged and EDI is disabled.
func NewCompositionRoot(ctx context.Context, config Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:  config,
		logger:  logger,
		metrics: metrics.New(),
	}

	repo, loads, err := c.storage()
	if err != nil {
		return nil, err
	}

	notifier, ediService, err := c.messaging(ctx)
	if err != nil {
		return nil, errors.Join(err, c.Close(ctx))
	}

	policy := retry.Policy{
		Timeout:         config.PersistTimeout,
		MaxRetries:      config.SideEffectMaxRetries,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}

	dispatcher, err := notifications.NewDispatcher(notifier, ediService, loads,
		notifications.WithLogger(logger),
		notifications.WithMetrics(c.metrics),
		notifications.WithRetryPolicy(retry.Policy{
			MaxRetries:      config.SideEffectMaxRetries,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     time.Second,
		}),
	)
	if err != nil {
		return nil, errors.Join(err, c.Close(ctx))
	}

	c.engine, err = engine.New(repo, dispatcher,
		engine.WithLogger(logger),
		engine.WithMetrics(c.metrics),
		engine.WithPersistPolicy(policy),
		engine.WithNotifyTimeout(config.NotifyTimeout),
	)
	if err != nil {
		return nil, errors.Join(err, c.Close(ctx))
	}
	return c, nil
}

func (c *CompositionRoot) storage() (ports.WorkflowRepository, ports.LoadDirectory, error) {
	if !c.config.UsePostgres() {
		c.logger.Warn("DB_HOST is empty, workflows are kept in memory")
		return inmem.NewWorkflowRepository(), inmem.NewLoadDirectory(), nil
	}

	db, err := postgres.Open(postgres.DSN(
		c.config.DBHost,
		c.config.DBPort,
		c.config.DBUser,
		c.config.DBPassword,
		c.config.DBName,
		c.config.DBSslMode,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	c.gormDB = db
	return workflowrepo.NewGormWorkflowRepository(db), loadrepo.NewGormLoadRepository(db), nil
}

func (c *CompositionRoot) messaging(ctx context.Context) (ports.Notifier, ports.EDIService, error) {
	if !c.config.UseRedis() {
		c.logger.Warn("REDIS_ADDR is empty, notifications are logged and EDI is disabled")
		return inmem.NewLogNotifier(c.logger), nil, nil
	}

	registry, err := partners.LoadFile(c.config.EDIPartnersFile)
	if err != nil {
		return nil, nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.config.RedisAddr,
		Password: c.config.RedisPassword,
		DB:       c.config.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("ping redis: %w", err), client.Close())
	}
	c.redisClient = client

	return redisout.NewNotifier(client, redisout.DefaultPrefix),
		redisout.NewEDIOutbox(client, registry, redisout.DefaultPrefix),
		nil
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) Engine() *engine.Engine {
	return c.engine
}

func (c *CompositionRoot) CreateInitializeWorkflowCommandHandler() commands.InitializeWorkflowCommandHandler {
	return commands.NewInitializeWorkflowCommandHandler(c.engine)
}

func (c *CompositionRoot) CreateCompleteStepCommandHandler() commands.CompleteStepCommandHandler {
	return commands.NewCompleteStepCommandHandler(c.engine)
}

func (c *CompositionRoot) CreateRequestOverrideCommandHandler() commands.RequestOverrideCommandHandler {
	return commands.NewRequestOverrideCommandHandler(c.engine)
}

func (c *CompositionRoot) CreateResolveOverrideCommandHandler() commands.ResolveOverrideCommandHandler {
	return commands.NewResolveOverrideCommandHandler(c.engine)
}

func (c *CompositionRoot) CreateUploadStepDocumentCommandHandler() commands.UploadStepDocumentCommandHandler {
	return commands.NewUploadStepDocumentCommandHandler(c.engine)
}

func (c *CompositionRoot) CreateReconcileWorkflowsCommandHandler() commands.ReconcileWorkflowsCommandHandler {
	return commands.NewReconcileWorkflowsCommandHandler(c.engine, c.logger)
}

func (c *CompositionRoot) CreateGetWorkflowQueryHandler() queries.GetWorkflowQueryHandler {
	return queries.NewGetWorkflowQueryHandler(c.engine)
}

func (c *CompositionRoot) CreateGetWorkflowActionsQueryHandler() queries.GetWorkflowActionsQueryHandler {
	return queries.NewGetWorkflowActionsQueryHandler(c.engine)
}

func (c *CompositionRoot) CreateGetDriverWorkflowsQueryHandler() queries.GetDriverWorkflowsQueryHandler {
	return queries.NewGetDriverWorkflowsQueryHandler(c.engine)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		InitializeWorkflow: c.CreateInitializeWorkflowCommandHandler(),
		CompleteStep:       c.CreateCompleteStepCommandHandler(),
		RequestOverride:    c.CreateRequestOverrideCommandHandler(),
		ResolveOverride:    c.CreateResolveOverrideCommandHandler(),
		UploadStepDocument: c.CreateUploadStepDocumentCommandHandler(),
		GetWorkflow:        c.CreateGetWorkflowQueryHandler(),
		GetWorkflowActions: c.CreateGetWorkflowActionsQueryHandler(),
		GetDriverWorkflows: c.CreateGetDriverWorkflowsQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	handler := c.CreateReconcileWorkflowsCommandHandler()
	return jobs.NewJobManager(&handler, c.config.ReconcileSchedule, c.logger)
}

// Close drains the engine and releases the backends.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var errList []error
	if c.engine != nil {
		errList = append(errList, c.engine.Close(ctx))
	}
	if c.redisClient != nil {
		errList = append(errList, c.redisClient.Close())
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			errList = append(errList, sqlDB.Close())
		}
	}
	return errors.Join(errList...)
}
