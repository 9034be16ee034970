package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pluginkit/pkg/autocomplete"
	"github.com/platinummonkey/pluginkit/pkg/bootstrap"
	"github.com/platinummonkey/pluginkit/pkg/config"
	"github.com/platinummonkey/pluginkit/pkg/db"
	"github.com/platinummonkey/pluginkit/pkg/form"
	"github.com/platinummonkey/pluginkit/pkg/info"
	"github.com/platinummonkey/pluginkit/pkg/observability"
	"github.com/platinummonkey/pluginkit/pkg/settings"
	"github.com/platinummonkey/pluginkit/pkg/translations"
)

func main() {
	manifestPath := flag.String("manifest", "", "Write the plugin manifest to this path")
	pluginID := flag.String("id", "example-integration", "Plugin ID used in the manifest")
	version := flag.String("version", "0.1.0", "Plugin version used in the manifest")
	metricsPath := flag.String("metrics-out", "", "Write a metrics snapshot to this path on exit (requires PLUGIN_METRICS_ENABLED)")
	flag.Parse()

	if err := run(*manifestPath, *pluginID, *version, *metricsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(manifestPath, pluginID, version, metricsPath string) error {
	// Environment variables come from the .env file at the plugin root
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat, nil)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.DefaultRegisterer)
		if metricsPath != "" {
			defer writeMetrics(cfg.Path(metricsPath), log)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bootstrap.Standard(cfg, pluginOptions(), log, metrics)
	if err := b.Run(ctx); err != nil {
		return err
	}
	defer db.Close()

	if err := reportHealth(ctx, log); err != nil {
		return err
	}

	pluginInfo, err := info.Get()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(pluginInfo, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plugin info: %w", err)
	}
	fmt.Println(string(out))

	if manifestPath != "" {
		manifest := pluginInfo.Manifest(pluginID, version)
		if errs := info.ValidateManifest(manifest); len(errs) > 0 {
			return fmt.Errorf("manifest validation failed: %v", errs)
		}
		if err := info.SaveManifest(manifest, cfg.Path(manifestPath)); err != nil {
			return err
		}
		log.Infof("Manifest written to %s", cfg.Path(manifestPath))
	}

	return nil
}

// writeMetrics dumps the bootstrap metrics so a failed start can be inspected
func writeMetrics(path string, log *logrus.Logger) {
	f, err := os.Create(path)
	if err != nil {
		log.Warnf("Failed to create metrics snapshot: %v", err)
		return
	}
	defer f.Close()

	if err := observability.WriteMetrics(f, prometheus.DefaultGatherer); err != nil {
		log.Warnf("Failed to write metrics snapshot: %v", err)
		return
	}
	log.Debugf("Metrics snapshot written to %s", path)
}

// pluginOptions describes this example plugin
func pluginOptions() bootstrap.Options {
	return bootstrap.Options{
		Type:        info.PluginTypeIntegration,
		Name:        "Plugin name",
		Description: "Plugin integration description",
		Extra: map[string]any{
			"countries": []string{"RU", "US"},
		},
		Developer: info.Developer{
			Name:     "Your (company) name",
			Email:    "support.for.plugin@example.com",
			Hostname: "example.com",
		},
		Form: form.NewForm,
		// Replace with a resolver returning providers per field name, e.g.
		// "status" -> statuses provider, "user" -> users provider.
		Autocomplete: autocomplete.None,
	}
}

func reportHealth(ctx context.Context, log *logrus.Logger) error {
	conn, err := db.DB()
	if err != nil {
		return err
	}

	checker := observability.NewHealthChecker(conn)
	checker.AddCheck("settings", func(ctx context.Context) error {
		_, err := settings.GetForm()
		return err
	})
	checker.AddCheck("translations", func(ctx context.Context) error {
		if translations.DefaultLang() == "" {
			return translations.ErrNotConfigured
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := checker.Check(ctx)
	for name, dep := range status.Dependencies {
		log.WithField("dependency", name).Debugf("Health: %s (%s)", dep.Status, dep.Latency)
	}
	if status.Status != observability.StatusHealthy {
		return fmt.Errorf("plugin is unhealthy after bootstrap")
	}
	return nil
}
