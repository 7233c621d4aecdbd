// Package database handles the snapshot database connection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure MySQL connections based on the application's configuration. The
// database stores serialized CombinationConfig snapshots; it is optional, and
// the service runs memory-only when the connection cannot be established.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("running without persistence", zap.Error(err))
//	}
package database
