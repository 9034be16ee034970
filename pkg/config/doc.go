// Package config provides plugin runtime configuration from the environment.
//
// # Overview
//
// At startup the plugin's .env file (at the plugin root) is loaded into the
// process environment, then PLUGIN_* variables are read with defaults.
// Variables already set in the environment take precedence over the file.
//
// # Configuration Structure
//
// Root:
//
//	PLUGIN_ROOT="/srv/plugin"  # defaults to the working directory
//
// Database settings:
//
//	PLUGIN_DB_ENGINE="sqlite"  # sqlite, postgres
//	PLUGIN_DB_FILE="db/database.db"
//	PLUGIN_DB_DSN="postgres://localhost/plugin?sslmode=disable"
//	PLUGIN_DB_TIMEOUT="5s"
//
// Localization settings:
//
//	PLUGIN_LANG_DEFAULT="ru_RU"
//	PLUGIN_TRANSLATIONS_DIR="translations"
//	PLUGIN_TRANSLATIONS_WATCH="false"
//
// Observability settings:
//
//	PLUGIN_LOG_LEVEL="info"  # trace, debug, info, warn, error
//	PLUGIN_LOG_FORMAT="text" # text, json
//	PLUGIN_METRICS_ENABLED="true"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Database: %s\n", cfg.DBFile())
//	fmt.Printf("Language: %s\n", cfg.Lang.Default)
package config
