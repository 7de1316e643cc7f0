// Package config provides configuration management for the application.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file, with defaults declared on the partial config
// structs via `default` tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL/SQLite connection details
//   - Archive: S3/MinIO credentials and bucket for run reports
//   - Log: Logging level and format
//   - Dedupe: Deduplication engine thresholds, weights, and run policy
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
