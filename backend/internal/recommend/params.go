package recommend

import "coursehub/backend/internal/graph"

// Result caps are clamped into [MinLimit, MaxLimit]
const (
	MinLimit           = 1
	MaxLimit           = 200
	DefaultLimit       = 20
	DefaultCourseLimit = 5
)

// Default thresholds. A threshold is a minimum: values equal to it qualify.
const (
	DefaultDifficultyThreshold  = 0.6
	DefaultSimilarityThreshold  = 0.8
	DefaultPerformanceThreshold = 0.8
	DefaultFrequencyThreshold   = 0.7
	DefaultWeightThreshold      = 0.5
	DefaultMinErrorScore        = 0.0
	DefaultMultiHopPerformance  = 0.75
)

// DifficultyParams parameterizes ByDifficulty. Skills whose error score is
// greater than or equal to Threshold qualify.
type DifficultyParams struct {
	UserID    string  `json:"user_id" form:"user_id" validate:"required,notblank,max=128"`
	Threshold float64 `json:"threshold" form:"threshold,default=0.6" validate:"gte=0,lte=1"`
	Limit     int     `json:"limit" form:"limit,default=20"`
}

// SimilarUsersParams parameterizes BySimilarUsers. A weak skill is one
// whose error score is >= DifficultyThreshold; the other two thresholds are
// inclusive (>=) as well.
type SimilarUsersParams struct {
	UserID               string  `json:"user_id" form:"user_id" validate:"required,notblank,max=128"`
	DifficultyThreshold  float64 `json:"difficulty_threshold" form:"difficulty_threshold,default=0.6" validate:"gte=0,lte=1"`
	SimilarityThreshold  float64 `json:"similarity_threshold" form:"similarity_threshold,default=0.8" validate:"gte=0,lte=1"`
	PerformanceThreshold float64 `json:"performance_threshold" form:"performance_threshold,default=0.8" validate:"gte=0,lte=1"`
	Limit                int     `json:"limit" form:"limit,default=20"`
}

// ErrorsParams parameterizes ByErrorsAndInterests. Mistakes with frequency
// >= FrequencyThreshold qualify.
type ErrorsParams struct {
	UserID             string  `json:"user_id" form:"user_id" validate:"required,notblank,max=128"`
	FrequencyThreshold float64 `json:"frequency_threshold" form:"frequency_threshold,default=0.7" validate:"gte=0,lte=1"`
	Limit              int     `json:"limit" form:"limit,default=20"`
}

// InterestsParams parameterizes ByInterests. Interests with weight >=
// WeightThreshold and skills with error score >= MinErrorScore qualify.
type InterestsParams struct {
	UserID          string  `json:"user_id" form:"user_id" validate:"required,notblank,max=128"`
	WeightThreshold float64 `json:"weight_threshold" form:"weight_threshold,default=0.5" validate:"gte=0,lte=1"`
	MinErrorScore   float64 `json:"min_error_score" form:"min_error_score,default=0" validate:"gte=0,lte=1"`
	Limit           int     `json:"limit" form:"limit,default=20"`
}

// MultiHopParams parameterizes MultiHop. Both thresholds are inclusive (>=).
type MultiHopParams struct {
	UserID               string  `json:"user_id" form:"user_id" validate:"required,notblank,max=128"`
	DifficultyThreshold  float64 `json:"difficulty_threshold" form:"difficulty_threshold,default=0.6" validate:"gte=0,lte=1"`
	PerformanceThreshold float64 `json:"performance_threshold" form:"performance_threshold,default=0.75" validate:"gte=0,lte=1"`
	Limit                int     `json:"limit" form:"limit,default=20"`
}

// Limits caps each strategy of Recommend
type Limits struct {
	ByDifficulty         int `json:"by_difficulty" form:"limit_difficulty,default=20"`
	BySimilarUsers       int `json:"by_similar_users" form:"limit_similar,default=20"`
	ByErrorsAndInterests int `json:"by_errors_and_interests" form:"limit_errors,default=20"`
}

// DefaultLimits returns DefaultLimit for every strategy
func DefaultLimits() Limits {
	return Limits{
		ByDifficulty:         DefaultLimit,
		BySimilarUsers:       DefaultLimit,
		ByErrorsAndInterests: DefaultLimit,
	}
}

// clampLimit forces a result cap into [MinLimit, MaxLimit]
func clampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func validateParams(p interface{}) error {
	return graph.Validate(p)
}

func validateUserID(userID string) error {
	return graph.Validate(struct {
		UserID string `json:"user_id" validate:"required,notblank,max=128"`
	}{userID})
}
