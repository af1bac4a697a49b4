package graph

import "time"

// ============================================================================
// Node patches
//
// A nil field leaves the stored property untouched; only the id is required.
// ============================================================================

// UserPatch upserts a learner
type UserPatch struct {
	ID              string  `json:"user_id" validate:"required,notblank,max=128"`
	PrimaryLanguage *string `json:"primary_language,omitempty"`
	CurrentLevel    *string `json:"current_level,omitempty"`
	Streak          *int64  `json:"streak,omitempty" validate:"omitempty,gte=0"`
}

// ExercisePatch upserts an exercise
type ExercisePatch struct {
	ID         string   `json:"exercise_id" validate:"required,notblank,max=128"`
	Type       *string  `json:"type,omitempty"`
	Difficulty *float64 `json:"difficulty,omitempty" validate:"omitempty,gte=0"`
	Language   *string  `json:"language,omitempty"`
}

// SkillPatch upserts a skill
type SkillPatch struct {
	ID       string  `json:"skill_id" validate:"required,notblank,max=128"`
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Level    *string `json:"level,omitempty"`
}

// InterestPatch upserts an interest topic
type InterestPatch struct {
	ID       string  `json:"interest_id" validate:"required,notblank,max=128"`
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
}

// ErrorTypePatch upserts a kind of mistake learners make
type ErrorTypePatch struct {
	ID          string  `json:"error_id" validate:"required,notblank,max=128"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// User is the stored state of a learner node
type User struct {
	ID              string  `json:"user_id"`
	PrimaryLanguage *string `json:"primary_language"`
	CurrentLevel    *string `json:"current_level"`
	Streak          *int64  `json:"streak"`
}

// ============================================================================
// Relationship inputs
// ============================================================================

// Attempts says how a performance report changes the attempt count: either
// add one to whatever is stored, or overwrite it with an exact value.
type Attempts struct {
	exact bool
	n     int64
}

// IncrementAttempts counts the report as one more attempt
func IncrementAttempts() Attempts { return Attempts{} }

// SetAttempts overwrites the stored attempt count with n
func SetAttempts(n int64) Attempts { return Attempts{exact: true, n: n} }

// Exact returns the overwrite value, or false for an increment
func (a Attempts) Exact() (int64, bool) { return a.n, a.exact }

// Performance is a learner's result on an exercise (PERFORMED)
type Performance struct {
	UserID       string    `json:"user_id" validate:"required,notblank,max=128"`
	ExerciseID   string    `json:"exercise_id" validate:"required,notblank,max=128"`
	CorrectRatio float64   `json:"correct_ratio" validate:"gte=0,lte=1"`
	Attempts     Attempts  `json:"-" validate:"-"`
	PerformedAt  time.Time `json:"performed_at"`
}

// Difficulty is how badly a learner does on a skill (HAS_DIFFICULTY)
type Difficulty struct {
	UserID     string  `json:"user_id" validate:"required,notblank,max=128"`
	SkillID    string  `json:"skill_id" validate:"required,notblank,max=128"`
	ErrorScore float64 `json:"error_score" validate:"gte=0,lte=1"`
}

// UserError is how often a learner makes a kind of mistake (MAKES_ERROR)
type UserError struct {
	UserID    string  `json:"user_id" validate:"required,notblank,max=128"`
	ErrorID   string  `json:"error_id" validate:"required,notblank,max=128"`
	Frequency float64 `json:"frequency" validate:"gte=0,lte=1"`
}

// UserInterest is a learner's declared interest (INTERESTED_IN)
type UserInterest struct {
	UserID     string  `json:"user_id" validate:"required,notblank,max=128"`
	InterestID string  `json:"interest_id" validate:"required,notblank,max=128"`
	Weight     float64 `json:"weight" validate:"gte=0,lte=1"`
}

// TagKind selects the label an exercise tag points at
type TagKind string

const (
	TagInterest  TagKind = "interest"
	TagErrorType TagKind = "error_type"
)

// Tag is the target of a TAGGED_AS edge
type Tag struct {
	Kind TagKind `json:"kind" validate:"required,oneof=interest error_type"`
	ID   string  `json:"tag_id" validate:"required,notblank,max=128"`
}

// SimilarityPair is one SIMILAR_TO edge between two learners
type SimilarityPair struct {
	UserID      string  `json:"user_id" validate:"required,notblank,max=128"`
	OtherUserID string  `json:"other_user_id" validate:"required,notblank,max=128,nefield=UserID"`
	Score       float64 `json:"similarity_score" validate:"gte=0,lte=1"`
	Metric      string  `json:"metric" validate:"max=64"`
}

// Recommendation records the latest recommendation of an exercise to a
// learner (RECOMMENDED). Only the most recent one per pair is kept.
type Recommendation struct {
	UserID     string    `json:"user_id" validate:"required,notblank,max=128"`
	ExerciseID string    `json:"exercise_id" validate:"required,notblank,max=128"`
	Strategy   string    `json:"strategy" validate:"required,max=64"`
	Accepted   *bool     `json:"accepted,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Progress records that a learner completed a course (COMPLETED)
type Progress struct {
	UserID   string  `json:"user_id" validate:"required,notblank,max=128"`
	CourseID string  `json:"course_id" validate:"required,notblank,max=128"`
	Level    *string `json:"level,omitempty"`
}
