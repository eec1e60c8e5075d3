package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"nyc-subway-trivia/internal/config"
	"nyc-subway-trivia/internal/domain"
	"nyc-subway-trivia/internal/domain/ports/repository"
	mdb "nyc-subway-trivia/internal/infra/db/mongodb"
	"nyc-subway-trivia/internal/infra/logging"
	"nyc-subway-trivia/internal/infra/metrics"
	red "nyc-subway-trivia/internal/infra/redis"
	"nyc-subway-trivia/internal/usecase"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &cli.App{
		Name:      "setup-codes",
		Usage:     "deactivate all promo codes and issue the current shop codes",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to YAML config file (optional; MONGODB_URI is enough)",
				EnvVars: []string{"SETUP_CODES_CONFIG"},
			},
			&cli.BoolFlag{Name: "dev", Usage: "development mode (console logs, no redaction)"},
			&cli.BoolFlag{Name: "ensure-schema", Usage: "create the codes collection with its validator if missing"},
		},
		Action: func(c *cli.Context) error {
			return provision(c, stdout, stderr)
		},
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the currently active codes",
				Action: func(c *cli.Context) error {
					return show(c, stdout, stderr)
				},
			},
		},
	}

	if err := app.RunContext(ctx, args); err != nil {
		var ce *commandError
		if errors.As(err, &ce) {
			fmt.Fprintln(stderr, ce.Error())
		} else {
			fmt.Fprintf(stderr, "Error setting up codes: %v\n", err)
		}
		return 1
	}
	return 0
}

// commandError tags a subcommand failure with that subcommand's own prefix.
type commandError struct {
	prefix string
	err    error
}

func (e *commandError) Error() string { return e.prefix + ": " + e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

// session holds what one invocation acquires; close releases it.
type session struct {
	cfg    *config.Config
	log    *zerolog.Logger
	client *mongo.Client
	cache  *red.Client
	codes  repository.PromoCodeRepository
}

func loadConfig(c *cli.Context, stderr io.Writer) (*config.Config, *zerolog.Logger, error) {
	cfg, err := config.Load(c.String("config"), c.Bool("dev"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logging.New(cfg.Log, cfg.Runtime.Dev, stderr), nil
}

func openSession(c *cli.Context, cfg *config.Config, logger *zerolog.Logger) (*session, error) {
	logger.Debug().
		Str("uri", logging.Redact(cfg.Mongo.URI, cfg.Runtime.Dev)).
		Str("database", cfg.Mongo.Database).
		Str("collection", cfg.Mongo.Collection).
		Msg("connecting to MongoDB")
	client, err := mdb.Connect(c.Context, &cfg.Mongo, "setup-codes")
	if err != nil {
		return nil, err
	}
	logger.Info().Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB")

	s := &session{cfg: cfg, log: logger, client: client}
	s.codes = mdb.NewPromoCodeRepo(client.Database(cfg.Mongo.Database), cfg.Mongo.Collection)

	// The lookup API caches active codes; writes through the decorator drop
	// those entries. Without Redis the API cache simply ages out.
	if cfg.Redis.URL != "" {
		rctx, cancel := context.WithTimeout(c.Context, 2*time.Second)
		defer cancel()
		cache, err := red.NewClient(rctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; cached codes will expire on their own")
		} else {
			s.cache = cache
			s.codes = mdb.NewPromoCodeRepoCacheDecorator(s.codes, cache, cfg.Redis.TTL, logger)
		}
	}
	return s, nil
}

func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.cache != nil {
		_ = s.cache.Close()
	}
	if err := s.client.Disconnect(ctx); err != nil {
		s.log.Warn().Err(err).Msg("disconnect failed")
	}
}

func provision(c *cli.Context, stdout, stderr io.Writer) error {
	metrics.MustRegister()
	start := time.Now()

	cfg, logger, err := loadConfig(c, stderr)
	if err != nil {
		metrics.ObserveProvision(false, time.Since(start))
		return fmt.Errorf("%w: %w", domain.ErrProvisioningFailed, err)
	}
	defer pushMetrics(cfg, logger)

	s, err := openSession(c, cfg, logger)
	if err != nil {
		metrics.ObserveProvision(false, time.Since(start))
		return fmt.Errorf("%w: %w", domain.ErrProvisioningFailed, err)
	}
	defer s.close()

	ctx, cancel := context.WithTimeout(c.Context, s.cfg.Mongo.Timeout)
	defer cancel()

	uc := usecase.NewProvisionUseCase(s.codes, s.log, usecase.WithEnsureSchema(c.Bool("ensure-schema")))
	res, err := uc.Provision(ctx)
	if err != nil {
		return err
	}

	s.log.Info().
		Str("run_id", res.RunID).
		Int64("deactivated", res.Deactivated).
		Int("inserted", len(res.Inserted)).
		Dur("duration", res.Duration).
		Msg("provisioning finished")
	fmt.Fprintln(stdout, "Codes setup completed successfully!")
	return nil
}

func show(c *cli.Context, stdout, stderr io.Writer) error {
	fail := func(err error) error { return &commandError{prefix: "Error showing codes", err: err} }

	cfg, logger, err := loadConfig(c, stderr)
	if err != nil {
		return fail(err)
	}
	s, err := openSession(c, cfg, logger)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	ctx, cancel := context.WithTimeout(c.Context, s.cfg.Mongo.Timeout)
	defer cancel()

	codes, err := usecase.NewCodeUseCase(s.codes, s.log).ListActive(ctx)
	if err != nil {
		return fail(fmt.Errorf("list active codes: %w", err))
	}
	if len(codes) == 0 {
		fmt.Fprintln(stdout, "no active codes")
		return nil
	}
	now := time.Now()
	for _, code := range codes {
		line := fmt.Sprintf("%-14s %-10s expires=%s created=%s",
			code.Code, code.Type, code.ExpiryDate.Format("2006-01-02"), code.CreatedAt.Format(time.RFC3339))
		if code.IsExpired(now) {
			line += " (expired)"
		}
		fmt.Fprintln(stdout, line)
	}
	return nil
}

// pushMetrics flushes the run's collectors when a Pushgateway is configured.
// It runs on failed runs too.
func pushMetrics(cfg *config.Config, logger *zerolog.Logger) {
	url := cfg.Metrics.PushgatewayURL
	if url == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metrics.Push(ctx, url, cfg.Metrics.Job); err != nil {
		logger.Warn().Err(err).Msg("pushgateway push failed")
	}
}
