package sitelayout

import (
	"context"

	"github.com/moseybank/sitelayout/config"
	"github.com/moseybank/sitelayout/telemetry"
)

// WithTelemetry sets up tracing, metrics and log export for the service.
// Exporters follow the standard OTEL_* environment variables.
func WithTelemetry(opts ...telemetry.Option) Option {
	return func(ctx context.Context, s *Service) {
		cfg, ok := s.Config().(config.ConfigurationTelemetry)
		if !ok {
			s.Log(ctx).Error("configuration object not of type : ConfigurationTelemetry")
			return
		}

		extOpts := []telemetry.Option{
			telemetry.WithServiceName(s.Name()),
			telemetry.WithServiceVersion(s.Version()),
			telemetry.WithServiceEnvironment(s.Environment())}

		extOpts = append(extOpts, opts...)

		manager := telemetry.NewManager(ctx, cfg, extOpts...)
		if err := manager.Init(ctx); err != nil {
			s.recordSetupError(err)
			return
		}
		s.telemetryManager = manager

		s.AddCleanupMethod(func(ctx context.Context) {
			if err := manager.Shutdown(ctx); err != nil {
				s.Log(ctx).WithError(err).Warn("telemetry did not shut down cleanly")
			}
		})

		WithLogger()(ctx, s)
	}
}

// TelemetryManager is nil unless WithTelemetry was applied.
func (s *Service) TelemetryManager() telemetry.Manager {
	return s.telemetryManager
}
