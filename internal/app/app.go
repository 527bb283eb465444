package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"ArticlePromoter/internal/config"
	"ArticlePromoter/internal/infrastructure/parser"
	"ArticlePromoter/internal/infrastructure/replicate"
	"ArticlePromoter/internal/infrastructure/scheduler"
	"ArticlePromoter/internal/infrastructure/storage"
	"ArticlePromoter/internal/infrastructure/telegram"
	"ArticlePromoter/internal/infrastructure/twitter"
	"ArticlePromoter/internal/logging"
	"ArticlePromoter/internal/ports"
	"ArticlePromoter/internal/scanner"
	"ArticlePromoter/internal/usecase"
)

// Application wires configuration into the publishing pipeline.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	store    *storage.PostgresRepository
	source   ports.ArticleSource
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance. Missing platform
// credentials abort construction immediately.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Twitter.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := storage.NewPostgresRepository(db)

	var source ports.ArticleSource
	if len(cfg.Sites) > 0 {
		registry := scanner.NewRegistry()
		registry.Register(parser.NewBlogScanner(nil, baseLogger.With("component", "scanner.blog")))
		source = parser.NewStrategySource(registry, cfg.Sites, baseLogger.With("component", "source"))
	}

	modelClient := replicate.NewClient(cfg.Replicate.Endpoint, cfg.Replicate.APIToken)
	generator := usecase.NewGenerator(usecase.GeneratorDeps{
		TextModel:  replicate.NewTextModel(modelClient, cfg.Replicate.TextModel),
		ImageModel: replicate.NewImageModel(modelClient, cfg.Replicate.ImageModel),
		Extractor:  replicate.NewExtractor(modelClient, cfg.Replicate.ExtractModel),
		Logger:     baseLogger.With("component", "generator"),
	})

	publisher := twitter.NewClient(twitter.Credentials{
		ConsumerKey:       cfg.Twitter.ConsumerKey,
		ConsumerSecret:    cfg.Twitter.ConsumerSecret,
		AccessToken:       cfg.Twitter.AccessToken,
		AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
	}, baseLogger.With("component", "twitter"))

	var notifier ports.Notifier
	tg := cfg.Notifications.Telegram
	if tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:     store,
		Generator: generator,
		Publisher: publisher,
		Notifier:  notifier,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		db:       db,
		store:    store,
		source:   source,
		pipeline: pipeline,
	}, nil
}

// Run executes one refresh-and-publish pass, or keeps running on the
// configured interval when the scheduler is enabled.
func (a *Application) Run(ctx context.Context) error {
	defer a.db.Close()

	if err := a.store.EnsureSchema(ctx); err != nil {
		return err
	}

	if !a.cfg.Scheduler.Enabled {
		return a.runOnce(ctx)
	}

	driver := scheduler.NewInterval(a.cfg.Scheduler.IntervalDuration())
	sched := usecase.NewScheduler(driver, func(ctx context.Context) error {
		if err := a.runOnce(ctx); err != nil {
			a.logger.Error("scheduled run failed", "error", err)
			return err
		}
		return nil
	})

	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

// runOnce refreshes articles from the configured sites, then advances
// every article through its pending pipeline stages.
func (a *Application) runOnce(ctx context.Context) error {
	if a.source != nil {
		a.logger.Info("refreshing articles from configured sites")
		articles, err := a.source.FetchAll(ctx)
		if err != nil {
			a.logger.Error("article refresh failed, continuing with stored articles", "error", err)
		} else {
			for _, article := range articles {
				if err := a.store.UpsertSource(ctx, article); err != nil {
					return fmt.Errorf("store article %s: %w", article.URL, err)
				}
			}
			a.logger.Info("article refresh complete", "count", len(articles))
		}
	}

	_, err := a.pipeline.Run(ctx)
	return err
}
