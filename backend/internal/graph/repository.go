package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"coursehub/backend/internal/metrics"
	"coursehub/backend/pkg/config"
	apperrors "coursehub/backend/pkg/errors"
	"coursehub/backend/pkg/logger"
)

// Repository handles all Neo4j operations of the learning graph. Every
// mutation is an idempotent MERGE-based upsert issued as a single
// auto-commit statement; nothing here retries.
type Repository struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
	now      func() time.Time
}

// NewRepository creates a new graph repository over a shared driver
func NewRepository(driver neo4j.DriverWithContext, database string) *Repository {
	return &Repository{
		driver:   driver,
		database: database,
		logger:   logger.Named("graph"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewDriver creates the Neo4j driver from config and verifies connectivity
func NewDriver(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		func(c *neo4j.Config) {
			c.MaxConnectionPoolSize = cfg.Neo4jMaxPoolSize
		},
	)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(metrics.StoreNeo4j, "connect", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewStoreUnavailable(metrics.StoreNeo4j, "verify_connectivity", err)
	}
	return driver, nil
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// Uniqueness constraints, one per entity label. Labels cannot be bound as
// parameters, so the full statements are fixed here.
var constraintStatements = []string{
	`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (n:User) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT exercise_id_unique IF NOT EXISTS FOR (n:Exercise) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT skill_id_unique IF NOT EXISTS FOR (n:Skill) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT interest_id_unique IF NOT EXISTS FOR (n:Interest) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT error_type_id_unique IF NOT EXISTS FOR (n:ErrorType) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT course_id_unique IF NOT EXISTS FOR (n:Course) REQUIRE n.id IS UNIQUE`,
}

// EnsureConstraints creates the id uniqueness constraints. Safe to call on
// every start.
func (r *Repository) EnsureConstraints(ctx context.Context) error {
	for _, stmt := range constraintStatements {
		if err := r.run(ctx, "ensure_constraints", stmt, nil); err != nil {
			return err
		}
	}
	r.logger.Info("Graph constraints ready", zap.Int("constraints", len(constraintStatements)))
	return nil
}

// run executes one write statement in an auto-commit transaction
func (r *Repository) run(ctx context.Context, operation, query string, params map[string]interface{}) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreNeo4j, operation, start, err) }()

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return classify(operation, err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return classify(operation, err)
	}
	return nil
}

// ReadRecords runs a read-only query and collects every record. It is the
// only read path the recommendation engine uses.
func (r *Repository) ReadRecords(ctx context.Context, operation, query string, params map[string]interface{}) (records []*neo4j.Record, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreNeo4j, operation, start, err) }()

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, classify(operation, err)
	}
	records, err = result.Collect(ctx)
	if err != nil {
		return nil, classify(operation, err)
	}
	return records, nil
}

func classify(operation string, err error) error {
	if err == nil {
		return nil
	}
	if neo4j.IsConnectivityError(err) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewStoreUnavailable(metrics.StoreNeo4j, operation, err)
	}
	return apperrors.NewStoreQueryFailed(metrics.StoreNeo4j, operation, fmt.Errorf("failed to %s: %w", operation, err))
}

func (r *Repository) timestamp() string {
	return r.now().Format(time.RFC3339Nano)
}
