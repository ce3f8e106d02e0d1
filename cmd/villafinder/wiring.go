package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/dto"
	homeapp "villafinder/internal/app/handlers/home"
	scoopapp "villafinder/internal/app/handlers/scoops"
	sitemapapp "villafinder/internal/app/handlers/sitemap"
	"villafinder/internal/app/handlers/support"
	villaapp "villafinder/internal/app/handlers/villas"
	viewapp "villafinder/internal/app/handlers/views"
	"villafinder/internal/app/middleware"
	appoutbox "villafinder/internal/app/outbox"
	"villafinder/internal/app/policies"
	"villafinder/internal/app/queries"
	"villafinder/internal/app/uow"
	"villafinder/internal/domain/display"
	"villafinder/internal/domain/related"
	kafkabroker "villafinder/internal/infra/broker/kafka"
	rediscache "villafinder/internal/infra/cache/redis"
	"villafinder/internal/infra/config"
	mongostore "villafinder/internal/infra/db/mongo"
	pgstore "villafinder/internal/infra/db/postgres"
	ginserver "villafinder/internal/infra/http/gin"
	"villafinder/internal/infra/obs"
	outboxrelay "villafinder/internal/infra/outbox"
	"villafinder/internal/infra/storage/memory"
	s3store "villafinder/internal/infra/storage/s3"
)

type memoryRepos struct {
	villas *memory.VillaRepository
	scoops *memory.ScoopRepository
}

type application struct {
	logger *slog.Logger
	site   support.Site

	factory uow.UoWFactory
	memory  *memoryRepos

	queries  queries.Bus
	commands commands.Bus

	metrics  *obs.Metrics
	registry *prometheus.Registry
	checks   map[string]obs.Check

	pageCache *rediscache.PageCache
	images    *s3store.Images

	worker      *outboxrelay.Worker
	consumer    *kafkabroker.Consumer
	topicPrefix string

	closers []func(context.Context) error
}

// buildApplication connects the configured stores and assembles both buses.
func buildApplication(ctx context.Context, cfg config.Config, tuning config.Tuning, logger *slog.Logger) (*application, error) {
	app := &application{
		logger:      logger,
		site:        support.Site{BaseURL: cfg.BaseURL, Name: cfg.SiteName},
		metrics:     obs.NewMetrics(),
		registry:    prometheus.NewRegistry(),
		checks:      map[string]obs.Check{},
		topicPrefix: cfg.KafkaTopicPrefix,
	}
	if err := app.metrics.Register(app.registry); err != nil {
		return nil, err
	}
	app.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ok := false
	defer func() {
		if !ok {
			app.close()
		}
	}()

	var mongoDB *mongodriver.Database
	if cfg.Store == config.StoreMongo || cfg.KafkaEnabled() {
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		app.checks["mongo"] = client.Ping
		mongoDB = client.DB
		if cfg.Store == config.StoreMongo {
			if err := client.EnsureIndexes(ctx); err != nil {
				return nil, fmt.Errorf("mongo indexes: %w", err)
			}
		}
	}

	switch cfg.Store {
	case config.StorePostgres:
		client, err := pgstore.Open(cfg.PostgresDSN, cfg.PostgresMax)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func(context.Context) error { return client.Close() })
		app.checks["postgres"] = client.Ping
		if err := client.Migrate(ctx); err != nil {
			return nil, err
		}
		app.factory = pgstore.Factory{
			DB:         client.DB,
			VillasRepo: pgstore.NewVillaRepository(client.DB, logger),
			ScoopsRepo: pgstore.NewScoopRepository(client.DB, logger),
		}
	case config.StoreMongo:
		app.factory = mongostore.Factory{
			DB:         mongoDB,
			VillasRepo: mongostore.NewVillaRepository(mongoDB),
			ScoopsRepo: mongostore.NewScoopRepository(mongoDB),
		}
	default:
		repos := &memoryRepos{villas: memory.NewVillaRepository(), scoops: memory.NewScoopRepository()}
		app.memory = repos
		app.factory = memory.Factory{VillasRepo: repos.villas, ScoopsRepo: repos.scoops}
	}

	if cfg.RedisAddr != "" {
		app.pageCache = rediscache.New(rediscache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		app.closers = append(app.closers, func(context.Context) error { return app.pageCache.Close() })
		app.checks["redis"] = app.pageCache.Ping
	}

	if cfg.S3Endpoint != "" {
		images, err := s3store.NewImages(s3store.Options{
			Endpoint:      cfg.S3Endpoint,
			UseSSL:        cfg.S3UseSSL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicEndpoint,
			PresignTTL:    cfg.S3PresignTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		app.images = images
	}
	var resolver policies.ImageResolver
	if app.images != nil {
		resolver = app.images
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, villaapp.GetPageQuery{}.Key(), &villaapp.GetPageHandler{
		UoWFactory: app.factory,
		Ranker:     related.NewRanker(tuning.Related),
		Display:    display.NewKit(tuning.Display),
		Images:     resolver,
		Observer:   app.metrics,
		Site:       app.site,
		Logger:     logger,
	})
	queries.RegisterHandler(queryBus, scoopapp.GetPageQuery{}.Key(), &scoopapp.GetPageHandler{
		UoWFactory: app.factory,
		Display:    display.NewKit(tuning.Display),
		Images:     resolver,
		Site:       app.site,
		Logger:     logger,
	})
	queries.RegisterHandler(queryBus, homeapp.GetHomeQuery{}.Key(), &homeapp.GetHomeHandler{
		UoWFactory: app.factory,
		Images:     resolver,
		Site:       app.site,
	})
	queries.RegisterHandler(queryBus, sitemapapp.GetSitemapQuery{}.Key(), &sitemapapp.GetSitemapHandler{
		UoWFactory: app.factory,
		Site:       app.site,
	})

	queryMW := []middleware.QueryMiddleware{
		middleware.QueryLogging(logger, app.metrics),
		middleware.QueryValidation(middleware.SelfValidator{}),
	}
	if app.pageCache != nil {
		queryMW = append(queryMW, middleware.Cache(app.pageCache, nil, cfg.PageCacheTTL, app.metrics, logger))
	}
	app.queries = middleware.ChainQueries(queryBus, queryMW...)

	var (
		box     appoutbox.Outbox
		idStore middleware.IdempotencyStore
	)
	if cfg.KafkaEnabled() {
		store := outboxrelay.NewStore(mongoDB)
		ids := mongostore.NewIdempotencyStore(mongoDB)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("outbox indexes: %w", err)
		}
		if err := ids.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("idempotency indexes: %w", err)
		}
		box, idStore = store, ids
		if err := app.wireKafka(cfg, store); err != nil {
			return nil, err
		}
	} else {
		// Without a broker the outbox hands views straight back to the bus.
		box = memory.NewOutbox(func(ctx context.Context, rec appoutbox.EventRecord) error {
			cmd, err := viewapp.ApplyCommandFromRecord(rec)
			if err != nil {
				logger.Warn("undeliverable view event dropped", "event_id", rec.ID, "error", err)
				return nil
			}
			_, err = commands.Dispatch[viewapp.ApplyViewCommand, *dto.ViewAck](ctx, app.commands, cmd)
			return err
		})
		idStore = memory.NewIdempotencyStore()
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, viewapp.RecordViewCommand{}.Key(), &viewapp.RecordViewHandler{Outbox: box})
	commands.RegisterHandler(commandBus, viewapp.ApplyViewCommand{}.Key(), &viewapp.ApplyViewHandler{
		UoWFactory: app.factory,
		Observer:   app.metrics,
	})
	app.commands = middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger, app.metrics),
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(idStore, nil),
		middleware.OutboxFlush(box),
		middleware.Transaction(app.factory, nil),
	)
	if cfg.KafkaEnabled() {
		consumer, err := kafkabroker.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, newSaramaConfig(),
			&kafkabroker.ViewHandler{Bus: app.commands, Logger: logger}, logger)
		if err != nil {
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return consumer.Close() })
		app.consumer = consumer
	}

	ok = true
	return app, nil
}

func newSaramaConfig() *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = "villafinder"
	return c
}

// wireKafka starts the relay side: a producer and the outbox worker feeding it.
func (a *application) wireKafka(cfg config.Config, store *outboxrelay.Store) error {
	producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, newSaramaConfig())
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return producer.Close() })

	a.worker = &outboxrelay.Worker{
		Store:       store,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      a.logger,
	}
	return nil
}

func (a *application) viewTopics() []string {
	topics := make([]string, 0, len(kafkabroker.ViewTopics))
	for _, t := range kafkabroker.ViewTopics {
		topics = append(topics, a.topicPrefix+t)
	}
	return topics
}

func (a *application) httpHandlers(cfg config.Config) ginserver.Handlers {
	return ginserver.Handlers{
		Pages:          ginserver.PageHandler{Queries: a.queries},
		Views:          ginserver.ViewHandler{Commands: a.commands},
		SEO:            ginserver.SEOHandler{Queries: a.queries, BaseURL: cfg.BaseURL},
		Metrics:        a.metrics,
		MetricsHandler: obs.Handler(a.registry),
	}
}

// close releases connections in reverse order of acquisition.
func (a *application) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("shutdown cleanup failed", "error", err)
	}
}
