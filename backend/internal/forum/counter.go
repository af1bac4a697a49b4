package forum

import (
	"context"
	"errors"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// CounterAggregator maintains the per-thread post count on a Cassandra
// counter column. Increments commute, so concurrent posts never lose counts;
// the value is never recomputed from a scan.
type CounterAggregator struct {
	store *Store
}

const (
	stmtAddPostCount = `UPDATE thread_counts SET post_count = post_count + ? WHERE thread_id = ?`
	stmtGetPostCount = `SELECT post_count FROM thread_counts WHERE thread_id = ?`
)

// Seed returns the write that materializes the counter row at zero
func (c *CounterAggregator) Seed(ctx context.Context, threadID uuid.UUID) *gocql.Query {
	return c.store.write(ctx, stmtAddPostCount, int64(0), gocql.UUID(threadID))
}

// Increment returns the write that adds one post to the count
func (c *CounterAggregator) Increment(ctx context.Context, threadID uuid.UUID) *gocql.Query {
	return c.store.write(ctx, stmtAddPostCount, int64(1), gocql.UUID(threadID))
}

// Count reads the current post count. found is false when no counter row exists.
func (c *CounterAggregator) Count(ctx context.Context, threadID uuid.UUID) (count int64, found bool, err error) {
	err = c.store.read(ctx, stmtGetPostCount, gocql.UUID(threadID)).Scan(&count)
	if errors.Is(err, gocql.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify("count_posts", err)
	}
	return count, true, nil
}
