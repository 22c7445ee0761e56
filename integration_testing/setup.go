//go:build integration_test || all_tests

package integration_testing

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/physiometrics/internal"
	"github.com/2beens/physiometrics/internal/config"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	serverHost = "localhost"
	testDBName = "physiometrics"
)

type Suite struct {
	DB           *sql.DB
	dockerPool   *dockertest.Pool
	redisPort    string
	postgresPort string
	httpClient   *http.Client
}

func newSuite(t *testing.T) *Suite {
	t.Helper()

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	dockerPool, err := dockertest.NewPool("")
	require.NoError(t, err, "could not create new dockertest pool")
	// uses pool to try to connect to Docker
	require.NoError(t, dockerPool.Client.Ping(), "could not ping docker")
	dockerPool.MaxWait = 2 * time.Minute

	suite := &Suite{
		dockerPool: dockerPool,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
	t.Cleanup(suite.httpClient.CloseIdleConnections)

	suite.redisPort = suite.redisSetup(t)
	suite.postgresPort = suite.postgresSetup(t)

	return suite
}

// startServer runs a server with the given journal backend and returns its base URL.
func (s *Suite) startServer(t *testing.T, backend string, port int) string {
	t.Helper()

	cfg := &config.Config{
		Environment:             "integration",
		Host:                    serverHost,
		Port:                    port,
		PrometheusMetricsHost:   serverHost,
		PrometheusMetricsPort:   fmt.Sprint(port + 1000),
		LogLevel:                "debug",
		JournalBackend:          backend,
		JournalFilePath:         filepath.Join(t.TempDir(), "journal.txt"),
		JournalCacheSizeMB:      1,
		JournalCacheTTL:         config.Duration{Duration: time.Second},
		RedisHost:               serverHost,
		RedisPort:               s.redisPort,
		PostgresHost:            serverHost,
		PostgresPort:            s.postgresPort,
		PostgresDBName:          testDBName,
		EvaluateRateLimitPerMin: 1000,
	}

	server, err := internal.NewServer(context.Background(), internal.NewServerParams{
		Config:                  cfg,
		HoneycombTracingEnabled: false,
	})
	require.NoError(t, err)

	server.Serve(cfg.Host, cfg.Port)
	t.Cleanup(server.GracefulShutdown)

	endpoint := fmt.Sprintf("http://%s:%d", serverHost, port)
	require.Eventually(t, func() bool {
		resp, err := s.httpClient.Get(endpoint + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)

	return endpoint
}

func (s *Suite) redisSetup(t *testing.T) string {
	t.Helper()

	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	require.NoError(t, err, "run redis")
	t.Cleanup(func() {
		_ = redisResource.Close()
	})

	redisPort := redisResource.GetPort("6379/tcp")
	require.NoError(t, s.dockerPool.Retry(func() error {
		rdb := redis.NewClient(&redis.Options{Addr: serverHost + ":" + redisPort})
		defer rdb.Close()
		return rdb.Ping(context.Background()).Err()
	}))

	return redisPort
}

func (s *Suite) postgresSetup(t *testing.T) string {
	t.Helper()

	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_DB=" + testDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err, "dockerpool run postgres")
	t.Cleanup(func() {
		_ = pgResource.Close()
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/%s?sslmode=disable", pgPort, testDBName)
	require.NoError(t, s.dockerPool.Retry(func() error {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return err
		}
		s.DB = db
		return nil
	}))
	t.Cleanup(func() {
		_ = s.DB.Close()
	})

	return pgPort
}
