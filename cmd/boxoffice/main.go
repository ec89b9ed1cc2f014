package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/srgjo27/boxoffice/internal/adapter/cache"
	"github.com/srgjo27/boxoffice/internal/adapter/handler"
	"github.com/srgjo27/boxoffice/internal/adapter/repository/flatfile"
	"github.com/srgjo27/boxoffice/internal/adapter/repository/postgres"
	"github.com/srgjo27/boxoffice/internal/core/ports"
	"github.com/srgjo27/boxoffice/internal/core/services"
	"github.com/srgjo27/boxoffice/internal/platform/config"
	"github.com/srgjo27/boxoffice/internal/platform/database"
	"github.com/srgjo27/boxoffice/internal/platform/logger"
)

type repositories struct {
	events  ports.EventRepository
	users   ports.UserRepository
	tickets ports.TicketRepository
	close   func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1:]); err != nil {
		log.Error("Command failed", zap.Error(err))
		stop()
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.close()

	opts := []services.Option{services.WithLogger(log)}
	var handlerOpts []handler.Option

	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis", zap.String("addr", cfg.Redis.Addr()))

		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr(),
			DB:   cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}

		seatCache := cache.NewSeatCache(redisClient, cfg.Redis.SeatTTL)
		opts = append(opts, services.WithSeatCache(seatCache))
		handlerOpts = append(handlerOpts, handler.WithSeatReader(seatCache))
	}

	bookingSystem := services.NewBookingSystem(repos.events, repos.users, repos.tickets, opts...)

	if err := bookingSystem.LoadAll(ctx); err != nil {
		return err
	}

	if cfg.App.SeedDemoData && len(bookingSystem.Events()) == 0 {
		log.Info("No stored events found, creating demo data")
		if err := seedDemoData(ctx, bookingSystem); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	if len(args) == 0 {
		args = []string{"stats"}
	}

	err = handler.NewCommandHandler(bookingSystem, os.Stdout, handlerOpts...).Handle(ctx, args)
	if errors.Is(err, handler.ErrUsage) || errors.Is(err, handler.ErrUnknownCommand) {
		fmt.Fprintln(os.Stderr, "usage: boxoffice [events|upcoming|search <name>|users|tickets|stats|create-user <name> <email> <phone>|reserve <eventID> <userID>|cancel <ticketID>|seats <eventID>]")
	}

	return err
}

func openRepositories(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repositories, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:       cfg.Database.Host,
			Port:       cfg.Database.Port,
			User:       cfg.Database.User,
			Password:   cfg.Database.Password,
			DBName:     cfg.Database.DBName,
			SSLMode:    cfg.Database.SSLMode,
			MaxRetries: cfg.Database.MaxRetries,
			RetryDelay: cfg.Database.RetryDelay,
		}, log)
		if err != nil {
			return nil, err
		}

		if err := database.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}

		return postgresRepositories(db, log), nil
	default:
		log.Info("Using flat file storage", zap.String("dir", cfg.Storage.DataDir))

		return &repositories{
			events:  flatfile.NewEventRepository(cfg.Storage.DataDir, log),
			users:   flatfile.NewUserRepository(cfg.Storage.DataDir, log),
			tickets: flatfile.NewTicketRepository(cfg.Storage.DataDir, log),
			close:   func() error { return nil },
		}, nil
	}
}

func postgresRepositories(db *sql.DB, log *zap.Logger) *repositories {
	return &repositories{
		events:  postgres.NewEventRepository(db, log),
		users:   postgres.NewUserRepository(db),
		tickets: postgres.NewTicketRepository(db, log),
		close:   db.Close,
	}
}
