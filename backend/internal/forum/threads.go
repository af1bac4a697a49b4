package forum

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursehub/backend/internal/metrics"
	apperrors "coursehub/backend/pkg/errors"
)

const (
	stmtInsertThreadByCourse = `INSERT INTO threads_by_course (
		course_id, thread_id, title, author_id, created_at, last_activity_at
	) VALUES (?, ?, ?, ?, ?, ?)`

	stmtInsertThreadMetadata = `INSERT INTO thread_metadata (
		thread_id, course_id, title, author_id, created_at, last_activity_at
	) VALUES (?, ?, ?, ?, ?, ?)`

	stmtListThreadsByCourse = `SELECT thread_id, title, author_id, created_at, last_activity_at
		FROM threads_by_course
		WHERE course_id = ?
		LIMIT ?`

	stmtGetThreadMetadata = `SELECT course_id, title, author_id, created_at, last_activity_at
		FROM thread_metadata
		WHERE thread_id = ?`
)

// Counter returns the post count aggregate backing this store
func (s *Store) Counter() *CounterAggregator {
	return &CounterAggregator{store: s}
}

// CreateThread writes a new thread into the by-course view and the metadata
// view and seeds its counter. The three writes are independent; a failure
// part-way leaves the thread visible in some views only.
func (s *Store) CreateThread(ctx context.Context, courseID, title, authorID string) (thread *Thread, err error) {
	if err := requireID("course_id", courseID); err != nil {
		return nil, err
	}
	if err := requireText("title", title); err != nil {
		return nil, err
	}
	if err := requireID("author_id", authorID); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreCassandra, "create_thread", start, err) }()

	threadID := uuid.New()
	now := s.now().Truncate(time.Millisecond)
	tid := gocql.UUID(threadID)
	ts := now.UnixMicro()

	steps := []writeStep{
		queryStep("threads_by_course", s.write(ctx, stmtInsertThreadByCourse,
			courseID, tid, title, authorID, now, now).WithTimestamp(ts)),
		queryStep("thread_metadata", s.write(ctx, stmtInsertThreadMetadata,
			tid, courseID, title, authorID, now, now).WithTimestamp(ts)),
		queryStep("thread_counts", s.Counter().Seed(ctx, threadID)),
	}
	if err := s.fanOut("create_thread", steps); err != nil {
		return nil, err
	}

	s.logger.Info("Thread created",
		zap.String("thread_id", threadID.String()),
		zap.String("course_id", courseID),
	)

	lastActivity := now
	return &Thread{
		ThreadID:       threadID,
		CourseID:       courseID,
		Title:          title,
		AuthorID:       authorID,
		CreatedAt:      now,
		LastActivityAt: &lastActivity,
		PostCount:      0,
	}, nil
}

// ListThreadsByCourse returns up to limit threads of a course, newest first.
// The view's clustering order is the result order; there is no cursor.
func (s *Store) ListThreadsByCourse(ctx context.Context, courseID string, limit int) (threads []ThreadSummary, err error) {
	if err := requireID("course_id", courseID); err != nil {
		return nil, err
	}
	if err := checkLimit(limit, MaxThreadsLimit); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreCassandra, "list_threads_by_course", start, err) }()

	scanner := s.read(ctx, stmtListThreadsByCourse, courseID, limit).Iter().Scanner()
	threads = make([]ThreadSummary, 0, limit)
	for scanner.Next() {
		var (
			tid          gocql.UUID
			row          ThreadSummary
			lastActivity time.Time
		)
		if err := scanner.Scan(&tid, &row.Title, &row.AuthorID, &row.CreatedAt, &lastActivity); err != nil {
			return nil, classify("list_threads_by_course", err)
		}
		row.ThreadID = uuid.UUID(tid)
		row.CourseID = courseID
		row.CreatedAt = row.CreatedAt.UTC()
		row.LastActivityAt = optionalTime(lastActivity)
		threads = append(threads, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, classify("list_threads_by_course", err)
	}
	return threads, nil
}

// GetThread reads the metadata view and merges the post count. A thread
// without metadata does not exist whatever the counter says; a missing
// counter row reads as zero posts.
func (s *Store) GetThread(ctx context.Context, threadID string) (thread *Thread, err error) {
	id, err := parseThreadID(threadID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreCassandra, "get_thread", start, err) }()

	thread, err = s.threadMetadata(ctx, id)
	if err != nil {
		return nil, err
	}

	count, _, err := s.Counter().Count(ctx, id)
	if err != nil {
		return nil, err
	}
	thread.PostCount = count
	return thread, nil
}

// threadMetadata reads one row of the metadata view
func (s *Store) threadMetadata(ctx context.Context, id uuid.UUID) (*Thread, error) {
	var (
		thread       = &Thread{ThreadID: id}
		lastActivity time.Time
	)
	err := s.read(ctx, stmtGetThreadMetadata, gocql.UUID(id)).
		Scan(&thread.CourseID, &thread.Title, &thread.AuthorID, &thread.CreatedAt, &lastActivity)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, apperrors.NewNotFound("thread", id.String())
	}
	if err != nil {
		return nil, classify("get_thread_metadata", err)
	}
	thread.CreatedAt = thread.CreatedAt.UTC()
	thread.LastActivityAt = optionalTime(lastActivity)
	return thread, nil
}
