// Package db provides the process-wide database connector for plugins.
//
// # Overview
//
// A plugin configures exactly one connection at startup. The connector owns
// the handle afterwards; other packages (settings storage, health checks)
// obtain it through DB().
//
// # Engines
//
//	sqlite:   file-backed database, the file's parent directory is created
//	postgres: DSN-based connection via lib/pq
//
// # Usage Example
//
//	err := db.Configure(db.Config{
//		Engine: db.EngineSQLite,
//		File:   cfg.Path("db/database.db"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//		log.Fatal(err)
//	}
package db
