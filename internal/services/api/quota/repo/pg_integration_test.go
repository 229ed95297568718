//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"astrochat/internal/modkit/repokit"
	"astrochat/internal/platform/store"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable Postgres and returns its DSN
func startPostgres(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "astrochat",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/astrochat?sslmode=disable", host, port.Port())
}

func TestPG_Contract(t *testing.T) {
	dsn := startPostgres(t)

	var n int
	runContract(t, func(t *testing.T) Repo {
		ctx := context.Background()
		s, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 16}})
		if err != nil {
			t.Fatalf("open pg: %v", err)
		}
		t.Cleanup(func() { _ = s.Close(context.Background()) })

		if err := EnsureSchema(ctx, s.PG, DialectPostgres); err != nil {
			t.Fatalf("schema: %v", err)
		}
		// each subtest starts from an empty table
		n++
		if _, err := s.PG.Exec(ctx, `truncate quota_records`); err != nil {
			t.Fatalf("truncate %d: %v", n, err)
		}
		return repokit.MustBind(NewPG(), s.PG)
	})
}
