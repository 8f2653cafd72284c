package db

import (
	"context"
	"log"
	"time"

	"paytrack-backend/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds the shared connection pool. Startup fails hard when the database
// is unreachable; every component depends on it.
func Connect(cfg *config.Config) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MaxConnLifetime = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Connected to database %s at %s:%d",
		cfg.Database.Name, cfg.Database.Host, cfg.Database.Port)
	return pool
}
