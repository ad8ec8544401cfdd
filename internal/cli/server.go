package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techlingo-service/internal/app"
	"techlingo-service/internal/auth"
	"techlingo-service/internal/config"
	"techlingo-service/internal/infra/memory"
	"techlingo-service/internal/infra/postgres"
	infraredis "techlingo-service/internal/infra/redis"
	"techlingo-service/internal/seed"
	transport "techlingo-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = "change-me-in-production"
		log.Printf("auth secret not configured, using insecure default")
	}
	tokens := auth.NewTokenManager(secret, config.TTLDuration(cfg.Auth.TokenTTL, 7*24*time.Hour))

	var (
		users    app.UserStore
		sessions app.SessionStore
		progress app.ProgressStore
		catalog  transport.TermCatalog
		counter  app.TermCounter
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}

		bunDB := openBunDB(cfg.Postgres.URL)
		defer bunDB.Close()

		pgPool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pgPool.Close()

		pgCatalog := postgres.NewTermCatalog(pgPool)
		if count, err := pgCatalog.CountTerms(ctx); err == nil && count == 0 {
			log.Printf("term catalog empty, seeding")
			if err := seedTerms(ctx, bunDB); err != nil {
				return err
			}
		}

		store := postgres.NewStore(bunDB)
		users, sessions, progress = store, store, store
		catalog, counter = pgCatalog, pgCatalog
	} else {
		log.Printf("postgres url not configured, using in-memory stores")
		store := memory.NewStore()
		memCatalog := memory.NewTermCatalog(seed.Terms())
		users, sessions, progress = store, store, store
		catalog, counter = memCatalog, memCatalog
	}

	cacheTTL := config.TTLDuration(cfg.Terms.CacheTTL, 10*time.Minute)
	var pool app.TermPool
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pool = infraredis.NewTermPoolCache(redisClient, catalog, cacheTTL)
	} else {
		pool = memory.NewTermPoolCache(catalog, cacheTTL)
	}

	ledger := app.NewProgressLedger(progress)
	authService := app.NewAuthService(users, tokens)
	gameService := app.NewGameService(sessions, ledger, catalog, pool, app.NewQuestionGenerator(nil))
	statsService := app.NewStatsService(users, progress, counter)
	handler := transport.NewHandler(authService, gameService, statsService, catalog)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting techlingo service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
