package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coursehub/backend/internal/graph"
	"coursehub/backend/internal/metrics"
	"coursehub/backend/pkg/logger"
)

// Reader runs a read-only graph query. *graph.Repository implements it.
type Reader interface {
	ReadRecords(ctx context.Context, operation, query string, params map[string]interface{}) ([]*neo4j.Record, error)
}

// Cache stores combined results between calls. A miss returns false with a
// nil error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}) error
}

// Engine runs the recommendation strategies. It holds no per-request state.
type Engine struct {
	reader Reader
	cache  Cache
	logger *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithCache enables the read-through cache for Recommend. Graph writes do
// not invalidate it: after a mutation such as SetDifficulty, Recommend keeps
// returning the cached result for that user and limits until the entry's TTL
// expires. The single strategy methods are never cached.
func WithCache(c Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// NewEngine creates an engine over a graph reader
func NewEngine(reader Reader, opts ...Option) *Engine {
	e := &Engine{
		reader: reader,
		logger: logger.Named("recommend"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ByDifficulty surfaces exercises evaluating skills the learner struggles with
func (e *Engine) ByDifficulty(ctx context.Context, p DifficultyParams) ([]DifficultyCandidate, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	records, err := e.reader.ReadRecords(ctx, "recommend_"+StrategyByDifficulty, queryByDifficulty, map[string]interface{}{
		"user_id":   p.UserID,
		"threshold": p.Threshold,
		"limit":     int64(clampLimit(p.Limit)),
	})
	if err != nil {
		return nil, err
	}

	out := make([]DifficultyCandidate, 0, len(records))
	for _, r := range records {
		out = append(out, DifficultyCandidate{
			ExerciseID:         graph.GetStringFromRecord(r, "exercise_id"),
			SkillID:            graph.GetStringFromRecord(r, "skill_id"),
			ErrorScore:         graph.GetNullableFloat64FromRecord(r, "error_score"),
			ExerciseDifficulty: graph.GetNullableFloat64FromRecord(r, "exercise_difficulty"),
		})
	}
	sortByDifficulty(out)
	metrics.RecordCandidates(StrategyByDifficulty, len(out))
	return out, nil
}

// BySimilarUsers surfaces exercises similar learners did well on for the
// learner's weak skills
func (e *Engine) BySimilarUsers(ctx context.Context, p SimilarUsersParams) ([]SimilarUserCandidate, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	records, err := e.reader.ReadRecords(ctx, "recommend_"+StrategyBySimilarUsers, queryBySimilarUsers, map[string]interface{}{
		"user_id":               p.UserID,
		"difficulty_threshold":  p.DifficultyThreshold,
		"similarity_threshold":  p.SimilarityThreshold,
		"performance_threshold": p.PerformanceThreshold,
		"limit":                 int64(clampLimit(p.Limit)),
	})
	if err != nil {
		return nil, err
	}

	out := make([]SimilarUserCandidate, 0, len(records))
	for _, r := range records {
		out = append(out, SimilarUserCandidate{
			ExerciseID:  graph.GetStringFromRecord(r, "exercise_id"),
			SkillID:     graph.GetStringFromRecord(r, "skill_id"),
			Performance: graph.GetNullableFloat64FromRecord(r, "performance"),
			Similarity:  graph.GetNullableFloat64FromRecord(r, "similarity"),
		})
	}
	sortBySimilarUsers(out)
	metrics.RecordCandidates(StrategyBySimilarUsers, len(out))
	return out, nil
}

// ByErrorsAndInterests surfaces exercises tagged with the learner's frequent
// mistakes, ranking those that also match an interest higher
func (e *Engine) ByErrorsAndInterests(ctx context.Context, p ErrorsParams) ([]ErrorInterestCandidate, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	records, err := e.reader.ReadRecords(ctx, "recommend_"+StrategyByErrorsAndInterests, queryByErrorsAndInterests, map[string]interface{}{
		"user_id":   p.UserID,
		"threshold": p.FrequencyThreshold,
		"limit":     int64(clampLimit(p.Limit)),
	})
	if err != nil {
		return nil, err
	}

	out := make([]ErrorInterestCandidate, 0, len(records))
	for _, r := range records {
		out = append(out, ErrorInterestCandidate{
			ExerciseID:     graph.GetStringFromRecord(r, "exercise_id"),
			ErrorID:        graph.GetStringFromRecord(r, "error_id"),
			Frequency:      graph.GetNullableFloat64FromRecord(r, "frequency"),
			InterestWeight: graph.GetNullableFloat64FromRecord(r, "interest_weight"),
		})
	}
	sortByErrorsAndInterests(out)
	metrics.RecordCandidates(StrategyByErrorsAndInterests, len(out))
	return out, nil
}

// ByInterests surfaces exercises on the learner's interests that train a
// skill they need to reinforce
func (e *Engine) ByInterests(ctx context.Context, p InterestsParams) ([]InterestCandidate, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	records, err := e.reader.ReadRecords(ctx, "recommend_"+StrategyByInterests, queryByInterests, map[string]interface{}{
		"user_id":          p.UserID,
		"weight_threshold": p.WeightThreshold,
		"min_error_score":  p.MinErrorScore,
		"limit":            int64(clampLimit(p.Limit)),
	})
	if err != nil {
		return nil, err
	}

	out := make([]InterestCandidate, 0, len(records))
	for _, r := range records {
		out = append(out, InterestCandidate{
			ExerciseID:     graph.GetStringFromRecord(r, "exercise_id"),
			InterestID:     graph.GetStringFromRecord(r, "interest_id"),
			InterestWeight: graph.GetNullableFloat64FromRecord(r, "interest_weight"),
			ErrorScore:     graph.GetNullableFloat64FromRecord(r, "error_score"),
		})
	}
	sortByInterests(out)
	metrics.RecordCandidates(StrategyByInterests, len(out))
	return out, nil
}

// MultiHop surfaces exercises outside the learner's weak skills, reached
// through other learners who did well on exercises for those skills
func (e *Engine) MultiHop(ctx context.Context, p MultiHopParams) ([]MultiHopCandidate, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	records, err := e.reader.ReadRecords(ctx, "recommend_"+StrategyMultiHop, queryMultiHop, map[string]interface{}{
		"user_id":               p.UserID,
		"difficulty_threshold":  p.DifficultyThreshold,
		"performance_threshold": p.PerformanceThreshold,
		"limit":                 int64(clampLimit(p.Limit)),
	})
	if err != nil {
		return nil, err
	}

	out := make([]MultiHopCandidate, 0, len(records))
	for _, r := range records {
		out = append(out, MultiHopCandidate{
			ExerciseID:      graph.GetStringFromRecord(r, "exercise_id"),
			SourceUsers:     graph.GetStringSliceFromRecord(r, "source_users"),
			RelatedSkill:    graph.GetStringFromRecord(r, "related_skill"),
			AvgCorrectRatio: graph.GetNullableFloat64FromRecord(r, "avg_correct_ratio"),
		})
	}
	sortMultiHop(out)
	out = dedupMultiHop(out)
	metrics.RecordCandidates(StrategyMultiHop, len(out))
	return out, nil
}

// RecommendCourses returns courses completed by learners who completed a
// course in common with the caller, scored by how many of them did
func (e *Engine) RecommendCourses(ctx context.Context, userID string, limit int) ([]CourseCandidate, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	records, err := e.reader.ReadRecords(ctx, "recommend_"+StrategyCourses, queryRecommendCourses, map[string]interface{}{
		"user_id": userID,
		"limit":   int64(clampLimit(limit)),
	})
	if err != nil {
		return nil, err
	}

	out := make([]CourseCandidate, 0, len(records))
	for _, r := range records {
		out = append(out, CourseCandidate{
			CourseID: graph.GetStringFromRecord(r, "course_id"),
			Score:    graph.GetFloat64FromRecord(r, "score"),
		})
	}
	metrics.RecordCandidates(StrategyCourses, len(out))
	return out, nil
}

// Recommend runs the difficulty, similar-users and errors strategies
// concurrently with their default thresholds. The first failing strategy
// fails the whole call.
func (e *Engine) Recommend(ctx context.Context, userID string, limits Limits) (*Results, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	limits = Limits{
		ByDifficulty:         clampLimit(limits.ByDifficulty),
		BySimilarUsers:       clampLimit(limits.BySimilarUsers),
		ByErrorsAndInterests: clampLimit(limits.ByErrorsAndInterests),
	}

	key := cacheKey(userID, limits)
	if e.cache != nil {
		var cached Results
		hit, err := e.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			e.logger.Warn("Recommendation cache read failed", zap.String("user_id", userID), zap.Error(err))
		} else if hit {
			metrics.RecordCacheHit()
			return &cached, nil
		}
		metrics.RecordCacheMiss()
	}

	start := time.Now()
	res := &Results{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := e.ByDifficulty(gctx, DifficultyParams{
			UserID:    userID,
			Threshold: DefaultDifficultyThreshold,
			Limit:     limits.ByDifficulty,
		})
		res.ByDifficulty = c
		return err
	})
	g.Go(func() error {
		c, err := e.BySimilarUsers(gctx, SimilarUsersParams{
			UserID:               userID,
			DifficultyThreshold:  DefaultDifficultyThreshold,
			SimilarityThreshold:  DefaultSimilarityThreshold,
			PerformanceThreshold: DefaultPerformanceThreshold,
			Limit:                limits.BySimilarUsers,
		})
		res.BySimilarUsers = c
		return err
	})
	g.Go(func() error {
		c, err := e.ByErrorsAndInterests(gctx, ErrorsParams{
			UserID:             userID,
			FrequencyThreshold: DefaultFrequencyThreshold,
			Limit:              limits.ByErrorsAndInterests,
		})
		res.ByErrorsAndInterests = c
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("Recommendations computed",
		zap.String("user_id", userID),
		zap.Int("by_difficulty", len(res.ByDifficulty)),
		zap.Int("by_similar_users", len(res.BySimilarUsers)),
		zap.Int("by_errors_and_interests", len(res.ByErrorsAndInterests)),
		zap.Duration("duration", time.Since(start)),
	)

	if e.cache != nil {
		if err := e.cache.SetJSON(ctx, key, res); err != nil {
			e.logger.Warn("Recommendation cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return res, nil
}

func cacheKey(userID string, l Limits) string {
	return fmt.Sprintf("recommend:v1:%s:%d:%d:%d", userID, l.ByDifficulty, l.BySimilarUsers, l.ByErrorsAndInterests)
}
