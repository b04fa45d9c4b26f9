package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"boardinghouse/internal/config"
	"boardinghouse/internal/logger"
	"boardinghouse/internal/migration"
	"boardinghouse/internal/repository"
	"boardinghouse/internal/secrets"
	"boardinghouse/internal/service"
)

func main() {
	// Parse flags
	mode := flag.String("mode", "", "Admin mode: migrate|create-admin")
	name := flag.String("name", "", "Admin name (create-admin)")
	email := flag.String("email", "", "Admin email (create-admin); the password is read from ADMIN_PASSWORD")
	flag.Parse()

	envErr := godotenv.Load()
	logger := logger.New()
	if envErr != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}
	if err := secrets.Load(context.Background(), cfg, logger); err != nil {
		logger.Fatal().Msgf("Error resolving secrets: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger, *mode, service.NewUserInput{Name: *name, Email: *email, Password: os.Getenv("ADMIN_PASSWORD")})
	stop()
	if err != nil {
		logger.Fatal().Err(err).Str("mode", *mode).Msg("Admin command failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, mode string, admin service.NewUserInput) error {
	if mode != "migrate" && mode != "create-admin" {
		return fmt.Errorf("invalid mode %q, use -mode=migrate|create-admin", mode)
	}

	pool, err := repository.NewPool(ctx, cfg.DBConnectionString, 2, nil)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch mode {
	case "migrate":
		applied, err := migration.Run(ctx, pool, logger)
		if err != nil {
			return err
		}
		logger.Info().Int("applied", applied).Msg("Migrations complete")
	case "create-admin":
		users := service.NewUserService(repository.NewStore(pool), logger)
		u, err := users.CreateAdmin(ctx, admin)
		if err != nil {
			return err
		}
		logger.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("Admin created")
	}
	return nil
}
