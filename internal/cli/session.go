package cli

import (
	"context"
	"errors"

	"github.com/birbparty/go-confluence/internal/cache"
	"github.com/birbparty/go-confluence/internal/config"
	"github.com/birbparty/go-confluence/internal/telemetry"
	"github.com/birbparty/go-confluence/sdk"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

// session holds what a command needs to talk to Confluence.
type session struct {
	cfg       *config.Config
	client    *sdk.Client
	redis     *cache.RedisCache
	telemetry *telemetry.Telemetry
	formatter *OutputFormatter
	span      trace.Span
	ctx       context.Context
}

// loadConfig reads the config file and applies the global flags.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeConfig, "failed to load configuration", err)
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	switch {
	case opts.LogLevel != "":
		cfg.LogLevel = opts.LogLevel
	case opts.Verbose:
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// openSession loads configuration, starts telemetry and connects the
// client. The caller must close the session.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, formatter: newFormatter(opts, cmd)}

	telCfg := telemetry.NewConfigFromEnv()
	telCfg.LogLevel = cfg.LogLevel
	telCfg.LogFormat = cfg.LogFormat
	s.telemetry, err = telemetry.Init(cmd.Context(), telCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeConfig, "failed to initialize telemetry", err)
	}
	s.ctx, s.span = telemetry.StartSpan(cmd.Context(), "confluence "+cmd.CommandPath())

	clientCfg, err := cfg.ClientConfig()
	if err != nil {
		s.close(err)
		return nil, commandError("invalid configuration", err)
	}
	clientCfg = clientCfg.
		WithLogger(telemetry.Component("sdk")).
		WithObserver(s.telemetry.Observer)

	if cfg.Cache.Enabled {
		s.redis, err = cache.NewRedisCache(cfg.RedisConfig())
		if err != nil {
			telemetry.WithContext(s.ctx).WithError(err).Warn("Response cache unavailable, continuing without it")
		} else {
			clientCfg = clientCfg.WithCache(cache.Namespaced(s.redis, cfg.Identity()), cfg.Cache.TTL)
		}
	}

	s.client, err = sdk.NewClient(clientCfg)
	if err != nil {
		s.close(err)
		return nil, commandError("failed to create Confluence client", err)
	}
	s.formatter.VerboseLog("Connected to %s", cfg.BaseURL)
	return s, nil
}

// close ends the command span with err and releases every resource.
func (s *session) close(err error) error {
	var errs []error
	if s.client != nil {
		errs = append(errs, s.client.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.span != nil {
		telemetry.EndSpan(s.span, err)
	}
	if s.telemetry != nil {
		errs = append(errs, s.telemetry.Shutdown(context.Background()))
	}
	return errors.Join(errs...)
}

// withSession runs fn inside a session and closes it afterwards.
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(s *session) error) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	err = fn(s)
	if closeErr := s.close(err); closeErr != nil {
		telemetry.WithError(closeErr).Debug("Failed to close session")
	}
	return err
}
