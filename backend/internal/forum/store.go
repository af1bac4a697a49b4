package forum

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursehub/backend/internal/metrics"
	"coursehub/backend/pkg/config"
	"coursehub/backend/pkg/logger"
)

// Store handles all forum reads and writes against Cassandra. The four views
// and the counter table are written independently; nothing here rolls back
// a partially applied fan-out.
type Store struct {
	session *gocql.Session
	writeCL gocql.Consistency
	readCL  gocql.Consistency
	logger  *zap.Logger
	now     func() time.Time

	// lookupThread reads a thread's metadata row; CreatePost calls it before
	// building any write
	lookupThread func(ctx context.Context, id uuid.UUID) (*Thread, error)
}

// Options tunes the consistency levels used by a Store
type Options struct {
	WriteConsistency gocql.Consistency
	ReadConsistency  gocql.Consistency
}

// DefaultOptions writes fast (ONE) and reads from a local quorum
func DefaultOptions() Options {
	return Options{
		WriteConsistency: gocql.One,
		ReadConsistency:  gocql.LocalQuorum,
	}
}

// NewStore creates a forum store over an open session. The session is shared
// by every request and owned by the caller.
func NewStore(session *gocql.Session, opts Options) *Store {
	s := &Store{
		session: session,
		writeCL: opts.WriteConsistency,
		readCL:  opts.ReadConsistency,
		logger:  logger.Named("forum"),
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.lookupThread = s.threadMetadata
	return s
}

// NewCluster builds the cluster configuration from application config. The
// keyspace is left unset so the schema bootstrap can create it first.
func NewCluster(cfg *config.Config) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.CassandraHosts...)
	cluster.Port = cfg.CassandraPort
	cluster.Timeout = cfg.CassandraTimeout
	cluster.ConnectTimeout = cfg.CassandraTimeout
	// Callers own retries; the core issues each statement exactly once.
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 0}
	return cluster
}

// Connect provisions the keyspace and tables, then opens the long-lived
// session bound to the keyspace.
func Connect(ctx context.Context, cfg *config.Config) (*gocql.Session, error) {
	log := logger.Named("forum")
	cluster := NewCluster(cfg)

	if err := EnsureKeyspace(ctx, cluster, cfg.CassandraKeyspace, cfg.CassandraReplicationFactor); err != nil {
		return nil, err
	}

	cluster.Keyspace = cfg.CassandraKeyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, classify("connect", fmt.Errorf("failed to open keyspace session: %w", err))
	}

	if err := EnsureSchema(ctx, session); err != nil {
		session.Close()
		return nil, err
	}

	log.Info("Cassandra ready",
		zap.Strings("hosts", cfg.CassandraHosts),
		zap.String("keyspace", cfg.CassandraKeyspace),
	)
	return session, nil
}

// Close closes the underlying session
func (s *Store) Close() {
	if s.session != nil {
		s.session.Close()
	}
}

func (s *Store) read(ctx context.Context, stmt string, args ...interface{}) *gocql.Query {
	return s.session.Query(stmt, args...).WithContext(ctx).Consistency(s.readCL)
}

func (s *Store) write(ctx context.Context, stmt string, args ...interface{}) *gocql.Query {
	return s.session.Query(stmt, args...).WithContext(ctx).Consistency(s.writeCL)
}

// writeStep is one physical write of a logical fan-out
type writeStep struct {
	name string
	exec func() error
}

func queryStep(name string, q *gocql.Query) writeStep {
	return writeStep{name: name, exec: q.Exec}
}

// fanOut applies steps in order and stops at the first failure. Steps already
// applied stay applied; the failure is logged and counted so a
// reconciliation job can find the divergent views.
func (s *Store) fanOut(operation string, steps []writeStep) error {
	for i, step := range steps {
		if err := step.exec(); err != nil {
			if i > 0 {
				metrics.RecordFanOutFailure(operation, step.name)
				s.logger.Error("Fan-out write failed after partial apply",
					zap.String("operation", operation),
					zap.String("step", step.name),
					zap.Int("applied_steps", i),
					zap.Error(err),
				)
			}
			return classify(operation+"."+step.name, err)
		}
	}
	return nil
}
