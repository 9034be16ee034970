package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pluginkit/pkg/autocomplete"
	"github.com/platinummonkey/pluginkit/pkg/config"
	"github.com/platinummonkey/pluginkit/pkg/db"
	"github.com/platinummonkey/pluginkit/pkg/form"
	"github.com/platinummonkey/pluginkit/pkg/info"
	"github.com/platinummonkey/pluginkit/pkg/observability"
	"github.com/platinummonkey/pluginkit/pkg/settings"
	"github.com/platinummonkey/pluginkit/pkg/translations"
)

// Standard step names, in execution order
const (
	StepDB           = "db"
	StepTranslations = "translations"
	StepInfo         = "info"
	StepSettings     = "settings"
	StepAutocomplete = "autocomplete"
)

// InfoCategory is the translation category of the plugin name and description
const InfoCategory = "info"

var (
	// stopWatch cancels the catalog watcher and waits for it to exit
	stopWatch func()
	watchMu   sync.Mutex
)

// Options describes the plugin being bootstrapped
type Options struct {
	Type        info.PluginType
	Name        string // Message id translated in InfoCategory
	Description string // Message id translated in InfoCategory
	Extra       map[string]any
	Developer   info.Developer

	// Form builds the settings form; an empty form when nil
	Form settings.FormFactory
	// Autocomplete resolves field autocompletes; autocomplete.None when nil
	Autocomplete autocomplete.Resolver
}

// Standard builds the five framework registrations from cfg and opts
func Standard(cfg *config.Config, opts Options, log *logrus.Logger, metrics *observability.Metrics) *Bootstrap {
	if log == nil {
		log = logrus.New()
	}

	return New(log, metrics,
		Step{Name: StepDB, Run: func(ctx context.Context) error {
			return configureDB(ctx, cfg)
		}},
		Step{Name: StepTranslations, Run: func(ctx context.Context) error {
			return configureTranslations(ctx, cfg, log)
		}},
		Step{Name: StepInfo, Run: func(ctx context.Context) error {
			return configureInfo(opts)
		}},
		Step{Name: StepSettings, Run: func(ctx context.Context) error {
			return configureSettings(opts)
		}},
		Step{Name: StepAutocomplete, Run: func(ctx context.Context) error {
			return configureAutocomplete(opts, metrics)
		}},
	)
}

func configureDB(ctx context.Context, cfg *config.Config) error {
	dbCfg := db.Config{
		Engine:  cfg.DB.Engine,
		DSN:     cfg.DB.DSN,
		Timeout: cfg.DB.Timeout,
	}
	if cfg.DB.Engine == db.EngineSQLite {
		dbCfg.File = cfg.DBFile()
	}

	if err := db.Configure(dbCfg); err != nil {
		return err
	}
	return db.Migrate(ctx)
}

func configureTranslations(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	translations.SetLogger(log)

	if err := translations.Configure(cfg.Lang.Default); err != nil {
		return err
	}

	dir := cfg.TranslationsDir()
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		log.Debugf("Translations directory does not exist: %s", dir)
		return nil
	}

	if err := translations.LoadDir(dir); err != nil {
		return err
	}

	if cfg.Lang.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := translations.Watch(watchCtx, dir); err != nil {
				log.Warnf("Translation watcher stopped: %v", err)
			}
		}()

		watchMu.Lock()
		stopWatch = func() {
			cancel()
			<-done
		}
		watchMu.Unlock()
	}

	return nil
}

func configureInfo(opts Options) error {
	if opts.Name == "" {
		return fmt.Errorf("plugin name is required")
	}

	name := opts.Name
	description := opts.Description
	return info.Configure(
		opts.Type,
		func() string { return translations.Get(InfoCategory, name) },
		func() string { return translations.Get(InfoCategory, description) },
		opts.Extra,
		opts.Developer,
	)
}

func configureSettings(opts Options) error {
	factory := opts.Form
	if factory == nil {
		factory = form.NewForm
	}
	return settings.SetForm(factory)
}

func configureAutocomplete(opts Options, metrics *observability.Metrics) error {
	resolver := opts.Autocomplete
	if resolver == nil {
		resolver = autocomplete.None
	}

	if err := autocomplete.Configure(resolver); err != nil {
		return err
	}

	if metrics != nil {
		autocomplete.SetObserver(metrics.RecordAutocompleteLookup)
	}
	return nil
}

// Reset stops the catalog watcher, clears every framework registration
// made by Standard and closes the database connection.
func Reset() error {
	watchMu.Lock()
	stop := stopWatch
	stopWatch = nil
	watchMu.Unlock()
	if stop != nil {
		stop()
	}

	autocomplete.Reset()
	settings.Reset()
	info.Reset()
	translations.Reset()
	return db.Close()
}
