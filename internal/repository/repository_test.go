package repository_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startPostgres runs a container with every up migration applied and
// returns a pool connected to it.
func startPostgres(ctx context.Context) (*postgres.PostgresContainer, *pgxpool.Pool, error) {
	scripts, err := filepath.Glob("../migrations/*.up.sql")
	if err != nil {
		return nil, nil, fmt.Errorf("filepath.Glob: %w", err)
	}
	if len(scripts) == 0 {
		return nil, nil, errors.New("no up migrations found")
	}

	container, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("ghostshop"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(scripts...),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, fmt.Errorf("container.ConnectionString: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return container, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	return container, pool, nil
}

func stopPostgres(container *postgres.PostgresContainer, pool *pgxpool.Pool) error {
	if pool != nil {
		pool.Close()
	}
	if container == nil {
		return nil
	}
	return testcontainers.TerminateContainer(container)
}
