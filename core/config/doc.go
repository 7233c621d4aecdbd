// Package config provides configuration management for prompt-mixer.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file, with defaults coming from `default:` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key, default combination mode)
//   - Database: MySQL connection details for config snapshots
//   - Storage: S3/MinIO credentials and the master-sheet bucket layout
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
