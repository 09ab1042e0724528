package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"engagement-dashboard/internal/storage/migrations"
)

const testImage = "clickhouse/clickhouse-server:24.1-alpine"

// setupTestDB starts a throwaway ClickHouse server, creates the engagement
// database on it and applies the embedded schema.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImage,
			ExposedPorts: []string{"9000/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Ready for connections").WithStartupTimeout(90*time.Second),
				wait.ForListeningPort("9000/tcp"),
			),
		},
		Started: true,
	})
	require.NoError(t, err, "start clickhouse container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := "clickhouse://default:@" + host + ":" + port.Port() + "/engagement_test"
	require.NoError(t, EnsureDatabase(ctx, dsn))

	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.ApplyClickhouse(ctx, conn))

	return conn, func() {
		conn.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate clickhouse container: %v", err)
		}
	}
}
