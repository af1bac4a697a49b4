package forum

import (
	"context"
	"fmt"
	"regexp"

	"github.com/gocql/gocql"

	apperrors "coursehub/backend/pkg/errors"
)

// CQL cannot bind keyspace names, so the configured name is checked against
// the identifier grammar before it reaches statement text.
var keyspacePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,47}$`)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS threads_by_course (
		course_id text,
		thread_id uuid,
		title text,
		author_id text,
		created_at timestamp,
		last_activity_at timestamp,
		PRIMARY KEY ((course_id), created_at, thread_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, thread_id DESC)`,

	`CREATE TABLE IF NOT EXISTS thread_metadata (
		thread_id uuid PRIMARY KEY,
		course_id text,
		title text,
		author_id text,
		created_at timestamp,
		last_activity_at timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS thread_counts (
		thread_id uuid PRIMARY KEY,
		post_count counter
	)`,

	`CREATE TABLE IF NOT EXISTS posts_by_thread (
		thread_id uuid,
		post_id timeuuid,
		user_id text,
		content text,
		created_at timestamp,
		PRIMARY KEY ((thread_id), created_at, post_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, post_id DESC)`,

	`CREATE TABLE IF NOT EXISTS posts_by_user (
		user_id text,
		created_at timestamp,
		thread_id uuid,
		post_id timeuuid,
		content text,
		PRIMARY KEY ((user_id), created_at, post_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, post_id DESC)`,
}

// ValidKeyspace reports whether name can be used as a keyspace identifier
func ValidKeyspace(name string) bool {
	return keyspacePattern.MatchString(name)
}

// EnsureKeyspace creates the keyspace if it does not exist, using a
// short-lived session that is not bound to any keyspace.
func EnsureKeyspace(ctx context.Context, cluster *gocql.ClusterConfig, keyspace string, replicationFactor int) error {
	if !ValidKeyspace(keyspace) {
		return apperrors.NewValidation("keyspace", "must be a CQL identifier")
	}
	if replicationFactor < 1 {
		return apperrors.NewValidation("replication_factor", "must be at least 1")
	}

	bootstrap := *cluster
	bootstrap.Keyspace = ""
	session, err := bootstrap.CreateSession()
	if err != nil {
		return classify("ensure_keyspace", fmt.Errorf("failed to connect: %w", err))
	}
	defer session.Close()

	stmt := fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}`,
		keyspace, replicationFactor,
	)
	if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
		return classify("ensure_keyspace", err)
	}
	return nil
}

// EnsureSchema creates the forum views and the counter table. Every statement
// is IF NOT EXISTS, so it is safe on every start.
func EnsureSchema(ctx context.Context, session *gocql.Session) error {
	for _, stmt := range schemaStatements {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return classify("ensure_schema", err)
		}
	}
	return nil
}
