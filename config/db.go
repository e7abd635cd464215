package config

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrNotConfigured is returned when no database credentials are present.
// Callers treat it as "run without a store", not as a failure.
var ErrNotConfigured = errors.New("database not configured")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error
)

// Connect opens the Postgres connection exactly once and memoizes the
// result; later calls return the same handle (or the same error).
func Connect(cfg Config) (*gorm.DB, error) {
	dbOnce.Do(func() {
		if !cfg.StoreConfigured() {
			dbErr = ErrNotConfigured
			return
		}

		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=require",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

		db, dbErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
		})
		if dbErr != nil {
			return
		}

		sqlDB, err := db.DB()
		if err != nil {
			dbErr = err
			db = nil
			return
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)

		log.Println("✅ Connected to PostgreSQL")
	})
	return db, dbErr
}
