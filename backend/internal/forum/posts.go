package forum

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursehub/backend/internal/metrics"
)

const (
	stmtInsertPostByThread = `INSERT INTO posts_by_thread (
		thread_id, post_id, user_id, content, created_at
	) VALUES (?, ?, ?, ?, ?)`

	stmtInsertPostByUser = `INSERT INTO posts_by_user (
		user_id, created_at, thread_id, post_id, content
	) VALUES (?, ?, ?, ?, ?)`

	stmtTouchThreadMetadata = `UPDATE thread_metadata
		SET last_activity_at = ?
		WHERE thread_id = ?`

	stmtTouchThreadByCourse = `UPDATE threads_by_course
		SET last_activity_at = ?
		WHERE course_id = ? AND created_at = ? AND thread_id = ?`

	stmtListPostsByThread = `SELECT post_id, user_id, content, created_at
		FROM posts_by_thread
		WHERE thread_id = ?
		LIMIT ?`

	stmtListPostsByUser = `SELECT created_at, thread_id, post_id, content
		FROM posts_by_user
		WHERE user_id = ?
		LIMIT ?`
)

// CreatePost adds a post to an existing thread. The thread's metadata is
// read first: an unknown thread is rejected with ErrNotFound before anything
// is written. The five writes that follow are independent and are not rolled
// back if a later one fails.
//
// Every timestamped write carries the post's creation time as its Cassandra
// write timestamp, so when posts race the newest last_activity_at wins.
func (s *Store) CreatePost(ctx context.Context, threadID, userID, content string) (post *Post, err error) {
	id, err := parseThreadID(threadID)
	if err != nil {
		return nil, err
	}
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if err := requireText("content", content); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreCassandra, "create_post", start, err) }()

	thread, err := s.lookupThread(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().Truncate(time.Millisecond)
	postID := gocql.UUIDFromTime(now)
	tid := gocql.UUID(id)
	ts := now.UnixMicro()

	steps := []writeStep{
		queryStep("posts_by_thread", s.write(ctx, stmtInsertPostByThread,
			tid, postID, userID, content, now).WithTimestamp(ts)),
		queryStep("posts_by_user", s.write(ctx, stmtInsertPostByUser,
			userID, now, tid, postID, content).WithTimestamp(ts)),
		queryStep("thread_counts", s.Counter().Increment(ctx, id)),
		queryStep("thread_metadata", s.write(ctx, stmtTouchThreadMetadata,
			now, tid).WithTimestamp(ts)),
		queryStep("threads_by_course", s.write(ctx, stmtTouchThreadByCourse,
			now, thread.CourseID, thread.CreatedAt, tid).WithTimestamp(ts)),
	}
	if err := s.fanOut("create_post", steps); err != nil {
		return nil, err
	}

	s.logger.Debug("Post created",
		zap.String("thread_id", id.String()),
		zap.String("post_id", postID.String()),
		zap.String("user_id", userID),
	)

	return &Post{
		PostID:    uuid.UUID(postID),
		ThreadID:  id,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
	}, nil
}

// ListPostsByThread returns up to limit posts of a thread, newest first
func (s *Store) ListPostsByThread(ctx context.Context, threadID string, limit int) (posts []Post, err error) {
	id, err := parseThreadID(threadID)
	if err != nil {
		return nil, err
	}
	if err := checkLimit(limit, MaxThreadPostsLimit); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreCassandra, "list_posts_by_thread", start, err) }()

	scanner := s.read(ctx, stmtListPostsByThread, gocql.UUID(id), limit).Iter().Scanner()
	posts = make([]Post, 0, limit)
	for scanner.Next() {
		var (
			pid gocql.UUID
			p   = Post{ThreadID: id}
		)
		if err := scanner.Scan(&pid, &p.UserID, &p.Content, &p.CreatedAt); err != nil {
			return nil, classify("list_posts_by_thread", err)
		}
		p.PostID = uuid.UUID(pid)
		p.CreatedAt = p.CreatedAt.UTC()
		posts = append(posts, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, classify("list_posts_by_thread", err)
	}
	return posts, nil
}

// ListPostsByUser returns up to limit posts written by a user across all
// threads, newest first
func (s *Store) ListPostsByUser(ctx context.Context, userID string, limit int) (posts []Post, err error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if err := checkLimit(limit, MaxUserPostsLimit); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreCassandra, "list_posts_by_user", start, err) }()

	scanner := s.read(ctx, stmtListPostsByUser, userID, limit).Iter().Scanner()
	posts = make([]Post, 0, limit)
	for scanner.Next() {
		var (
			tid, pid gocql.UUID
			p        = Post{UserID: userID}
		)
		if err := scanner.Scan(&p.CreatedAt, &tid, &pid, &p.Content); err != nil {
			return nil, classify("list_posts_by_user", err)
		}
		p.ThreadID = uuid.UUID(tid)
		p.PostID = uuid.UUID(pid)
		p.CreatedAt = p.CreatedAt.UTC()
		posts = append(posts, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, classify("list_posts_by_user", err)
	}
	return posts, nil
}
