package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"
)

func databaseURL() (string, error) {
	url := viper.GetString("database_url")
	if url == "" {
		return "", errors.New("database URL is required: set DATABASE_URL or --database-url")
	}
	return url, nil
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	url, err := databaseURL()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func parseOwner(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, errors.New("--owner is required")
	}
	ownerID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid owner %q: %w", value, err)
	}
	return ownerID, nil
}
