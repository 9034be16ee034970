// Package bootstrap runs a plugin's startup registrations.
//
// # Overview
//
// A plugin configures the framework once, at process start, in a fixed
// order:
//
//  1. db:           database connection (sqlite file or postgres DSN)
//  2. translations: default language and translation catalogs
//  3. info:         plugin type, localized name/description, capabilities, developer
//  4. settings:     settings form factory
//  5. autocomplete: field name to autocomplete provider resolver
//
// If any step fails the sequence stops and Run returns a *StepError naming
// the step. The process must not go on to serve requests in that case.
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	b := bootstrap.Standard(cfg, bootstrap.Options{
//		Type:        info.PluginTypeIntegration,
//		Name:        "Plugin name",
//		Description: "Plugin integration description",
//		Extra:       map[string]any{"countries": []string{"RU", "US"}},
//		Developer:   developer,
//	}, logger, nil)
//
//	if err := b.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
package bootstrap
