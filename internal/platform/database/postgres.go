package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/platform/config"
)

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
)

// NewPostgresDB connects to PostgreSQL, retrying while the server comes up.
func NewPostgresDB(cfg config.DatabaseConfig, log logrus.FieldLogger) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		log.Infof("Connecting to database (Attempt %d/%d)...", i, maxRetries)
		db, err = sqlx.Connect("postgres", cfg.URL)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxConnections)
			db.SetMaxIdleConns(cfg.MaxIdleConnections)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
			log.Info("Database connected successfully!")
			return db, nil
		}

		log.WithError(err).Warn("Database not ready yet. Waiting 2 seconds...")
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}
