package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"truthle-quiz-service/internal/app"
	"truthle-quiz-service/internal/config"
	"truthle-quiz-service/internal/dataset"
	"truthle-quiz-service/internal/infra/memory"
	pginfra "truthle-quiz-service/internal/infra/postgres"
	redisinfra "truthle-quiz-service/internal/infra/redis"
	"truthle-quiz-service/internal/logger"
	"truthle-quiz-service/internal/quizgen"
	transport "truthle-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the Truthle server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.File)
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 48*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// dataset snapshot: embedded by default, postgres when configured
	var loader dataset.Loader = dataset.NewStaticLoader()
	var corrLoader dataset.CorrelationLoader = dataset.NewStaticLoader()
	if pool != nil {
		pgLoader := pginfra.NewDatasetLoader(pool)
		if countries, err := pgLoader.LoadCountries(ctx); err == nil && len(countries) > 0 {
			loader = pgLoader
			corrLoader = pgLoader
		} else {
			log.Warn("postgres dataset empty or unavailable, using embedded snapshot", zap.Error(err))
		}
	}
	countries, err := loader.LoadCountries(ctx)
	if err != nil {
		return err
	}
	correlations, err := corrLoader.LoadCorrelations(ctx)
	if err != nil {
		return err
	}
	builder := quizgen.NewDailyBuilder(countries, correlations, cfg.Quiz.TargetCount)

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 26*time.Hour)
	var daily app.DailyQuizRepository
	if redisClient != nil {
		daily = redisinfra.NewDailyQuizCache(redisClient, builder, quizTTL)
	} else {
		daily = memory.NewDailyQuizCache(builder, quizTTL)
	}

	// remote tiers: postgres when available, then redis, else in-memory dev mode
	var attemptStore app.AttemptStore
	var ledger app.CoinLedger
	switch {
	case pool != nil:
		attemptStore = pginfra.NewAttemptStore(pool)
		ledger = pginfra.NewCoinLedger(pool)
	case redisClient != nil:
		attemptStore = redisinfra.NewAttemptStore(redisClient)
		ledger = redisinfra.NewCoinLedger(redisClient)
	default:
		attemptStore = memory.NewAttemptStore()
		ledger = memory.NewCoinLedger()
	}

	var boards app.BoardRepository
	if redisClient != nil {
		boards = redisinfra.NewBoardStore(redisClient, redisTTL)
	} else {
		boards = memory.NewBoardStore()
	}

	attempts := app.NewAttemptService(memory.NewProgressCache(), attemptStore, ledger, boards, log)
	postback := app.NewPostbackService(ledger, cfg.Postback.Secret, log)
	identity := app.NewUUIDIdentityProvider()

	handler := transport.NewHandler(daily, attempts, postback, identity, boards, log)
	mux := http.NewServeMux()
	handler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting truthle service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
