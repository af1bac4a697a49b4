package forum

import (
	"time"

	"github.com/google/uuid"
)

// Thread is the canonical view of a discussion thread with its derived post count
type Thread struct {
	ThreadID       uuid.UUID  `json:"thread_id"`
	CourseID       string     `json:"course_id"`
	Title          string     `json:"title"`
	AuthorID       string     `json:"author_id"`
	CreatedAt      time.Time  `json:"created_at"`
	LastActivityAt *time.Time `json:"last_activity_at"`
	PostCount      int64      `json:"post_count"`
}

// ThreadSummary is a row of the threads-by-course view
type ThreadSummary struct {
	ThreadID       uuid.UUID  `json:"thread_id"`
	CourseID       string     `json:"course_id"`
	Title          string     `json:"title"`
	AuthorID       string     `json:"author_id"`
	CreatedAt      time.Time  `json:"created_at"`
	LastActivityAt *time.Time `json:"last_activity_at"`
}

// Post is an immutable message in a thread. PostID is a time-UUID whose
// time component equals CreatedAt.
type Post struct {
	PostID    uuid.UUID `json:"post_id"`
	ThreadID  uuid.UUID `json:"thread_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Limits of the list operations
const (
	DefaultThreadsLimit     = 20
	MaxThreadsLimit         = 100
	DefaultThreadPostsLimit = 100
	MaxThreadPostsLimit     = 500
	DefaultUserPostsLimit   = 50
	MaxUserPostsLimit       = 200
)

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}
