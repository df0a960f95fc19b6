package sitelayout

import (
	"context"
	"log/slog"

	"github.com/pitabwire/util"

	"github.com/moseybank/sitelayout/config"
)

// WithLogger Option that helps with initialization of our internal logger.
func WithLogger(opts ...util.Option) Option {
	return func(ctx context.Context, s *Service) {
		if s.Config() != nil {
			cfg, ok := s.Config().(config.ConfigurationLogLevel)
			if ok {
				logLevel, err := util.ParseLevel(cfg.LoggingLevel())
				if err == nil {
					opts = append(opts, util.WithLogLevel(logLevel))
				}
				opts = append(opts,
					util.WithLogTimeFormat(cfg.LoggingTimeFormat()),
					util.WithLogNoColor(!cfg.LoggingColored()))
				if cfg.LoggingShowStackTrace() {
					opts = append(opts, util.WithLogStackTrace())
				}
			}
		}

		if s.telemetryManager != nil && s.telemetryManager.LogHandler() != nil {
			opts = append(opts, util.WithLogHandler(s.telemetryManager.LogHandler()))
		}

		s.logger = util.NewLogger(ctx, opts...).WithField("service", s.Name())
	}
}

func (s *Service) Log(ctx context.Context) *util.LogEntry {
	return s.logger.WithContext(ctx)
}

func (s *Service) SLog(ctx context.Context) *slog.Logger {
	return s.Log(ctx).SLog()
}
