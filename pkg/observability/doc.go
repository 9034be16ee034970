// Package observability provides logging, metrics and health checks for plugins.
//
// # Logging
//
// Plugins log through logrus. NewLogger builds a logger from the configured
// level and format (text or json):
//
//	log := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat, nil)
//	log.Infof("Bootstrapping plugin from %s", cfg.Root)
//
// # Metrics
//
// Prometheus metrics cover the bootstrap sequence and autocomplete lookups:
//
//	plugin_bootstrap_steps_total{step, status}
//	plugin_bootstrap_step_duration_seconds{step}
//	plugin_autocomplete_lookups_total{outcome}
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(conn)
//	checker.AddCheck("translator", func(ctx context.Context) error { ... })
//	status := checker.Check(ctx)
package observability
