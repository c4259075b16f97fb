//go:build integration_test || all_tests

package internal

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/gymlog/exercises"
	"github.com/2beens/gymlog/internal/gymlog/records"
	"github.com/2beens/gymlog/internal/gymlog/workouts"
	"github.com/2beens/gymlog/internal/kvstore"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/pkg"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
)

const (
	itServerPort  = 9000
	itMetricsPort = 9001
	itServerHost  = "127.0.0.1"
	itDBName      = "gymlog_it"
)

var itServerEndpoint = fmt.Sprintf("http://%s:%d", itServerHost, itServerPort)

// IntegrationTestSuite runs the server on the postgres backend, with postgres
// and redis started in docker.
type IntegrationTestSuite struct {
	suite.Suite

	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *Server
	redisPort  string
	teardown   []func()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.teardown = make([]func(), 0)

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	var err error
	s.dockerPool, err = dockertest.NewPool("")
	s.Require().NoError(err, "create dockertest pool")
	s.Require().NoError(s.dockerPool.Client.Ping(), "ping dockertest pool")

	s.redisPort, err = s.redisSetup()
	if err != nil {
		s.cleanup()
		s.FailNow("redis setup", err.Error())
	}

	pgPort, err := s.postgresSetup()
	if err != nil {
		s.cleanup()
		s.FailNow("postgres setup", err.Error())
	}

	cfg := &config.Config{
		Host:           itServerHost,
		Port:           itServerPort,
		MetricsPort:    itMetricsPort,
		StoreBackend:   config.BackendPostgres,
		PostgresHost:   "localhost",
		PostgresPort:   pgPort,
		PostgresDBName: itDBName,
		CacheSizeMB:    1,
	}
	s.server, err = NewServer(ctx, NewServerParams{
		Config:      cfg,
		VersionInfo: "test-version-info",
	})
	if err != nil {
		s.cleanup()
		s.FailNow("new server", err.Error())
	}

	s.server.Serve(cfg.Host, cfg.Port)
	if err := s.dockerPool.Retry(func() error {
		resp, err := http.Get(itServerEndpoint + "/version")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}); err != nil {
		s.cleanup()
		s.FailNow("server not up", err.Error())
	}
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *IntegrationTestSuite) cleanup() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			fmt.Printf(" --> test suite db close error: %s\n", err)
		}
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func (s *IntegrationTestSuite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %w", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (s *IntegrationTestSuite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + itDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %w", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/%s?sslmode=disable", pgPort, itDBName)
	if err := s.dockerPool.Retry(func() error {
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
	}); err != nil {
		return "", fmt.Errorf("connect to db: %w", err)
	}

	return pgPort, nil
}

func (s *IntegrationTestSuite) post(path string, body any) *http.Response {
	reqBody, err := json.Marshal(body)
	s.Require().NoError(err)

	req, err := http.NewRequest("POST", itServerEndpoint+path, bytes.NewReader(reqBody))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *IntegrationTestSuite) get(path string) *http.Response {
	req, err := http.NewRequest("GET", itServerEndpoint+path, nil)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *IntegrationTestSuite) TestPostgresBackend_SaveAndRecords() {
	resp := s.post("/workouts", map[string]any{
		"date": "2024-05-01T18:00:00Z",
		"exercises": []workouts.ExerciseLog{
			{ExerciseID: "free-deadlift", Sets: []workouts.WorkoutSet{{Reps: 3, Weight: 150}, {Reps: 3, Weight: 155}}},
		},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var saved workouts.Workout
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&saved))
	s.Require().NoError(resp.Body.Close())
	s.NotEmpty(saved.ID)

	resp = s.get("/records/free-deadlift/3")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var maxWeight records.MaxWeightResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&maxWeight))
	s.Require().NoError(resp.Body.Close())
	s.Equal(155.0, maxWeight.Weight)

	// the documents are in the kv table
	var workoutsDoc string
	err := s.DB.QueryRow(`SELECT value::text FROM gymlog_kv WHERE key = $1`, kvstore.KeyWorkouts).Scan(&workoutsDoc)
	s.Require().NoError(err)
	s.Contains(workoutsDoc, saved.ID)

	var recordsCount int
	err = s.DB.QueryRow(`SELECT jsonb_array_length(value) FROM gymlog_kv WHERE key = $1`, kvstore.KeyPersonalRecords).Scan(&recordsCount)
	s.Require().NoError(err)
	s.Equal(1, recordsCount)
}

func (s *IntegrationTestSuite) TestRedisBackend_Tracker() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opened, err := kvstore.Open(ctx, kvstore.OpenParams{
		Backend:   config.BackendRedis,
		RedisHost: "localhost",
		RedisPort: s.redisPort,
	})
	s.Require().NoError(err)
	defer func() {
		s.NoError(opened.Store.Close())
	}()

	catalog := exercises.NewDefaultCatalog()
	workoutsLog := workouts.NewLog(opened.Store, pkg.UUIDGenerator{})
	aggregator := records.NewAggregator(opened.Store, catalog)
	tracker := gymlog.NewTracker(catalog, workoutsLog, aggregator, metrics.NewTestManager())

	saved, err := tracker.SaveWorkout(ctx, workouts.Workout{
		Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Exercises: []workouts.ExerciseLog{
			{ExerciseID: "bw-pull-ups", Sets: []workouts.WorkoutSet{{Reps: 10, Weight: 10}}},
		},
	})
	s.Require().NoError(err)

	rdb := redis.NewClient(&redis.Options{Addr: net.JoinHostPort("localhost", s.redisPort)})
	defer func() {
		s.NoError(rdb.Close())
	}()
	raw, err := rdb.Get(ctx, "gymlog::"+kvstore.KeyWorkouts).Result()
	s.Require().NoError(err)
	s.Contains(raw, saved.ID)

	weight, found, err := aggregator.GetMaxWeight(ctx, "bw-pull-ups", 10)
	s.Require().NoError(err)
	s.True(found)
	s.Equal(10.0, weight)
}
