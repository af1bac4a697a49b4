package recommend

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "coursehub/backend/pkg/errors"
)

type readCall struct {
	operation string
	query     string
	params    map[string]interface{}
}

// fakeReader answers each operation with canned records
type fakeReader struct {
	mu      sync.Mutex
	records map[string][]*neo4j.Record
	errs    map[string]error
	calls   []readCall
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		records: map[string][]*neo4j.Record{},
		errs:    map[string]error{},
	}
}

func (f *fakeReader) ReadRecords(_ context.Context, operation, query string, params map[string]interface{}) ([]*neo4j.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, readCall{operation: operation, query: query, params: params})
	if err := f.errs[operation]; err != nil {
		return nil, err
	}
	return f.records[operation], nil
}

func (f *fakeReader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func record(keys []string, values ...interface{}) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

var difficultyKeys = []string{"exercise_id", "skill_id", "error_score", "exercise_difficulty"}

func TestByDifficulty_TieBreaksOnLowerDifficulty(t *testing.T) {
	reader := newFakeReader()
	reader.records["recommend_by_difficulty"] = []*neo4j.Record{
		record(difficultyKeys, "e1", "s1", 0.8, int64(3)),
		record(difficultyKeys, "e2", "s1", 0.8, int64(1)),
	}
	engine := NewEngine(reader)

	got, err := engine.ByDifficulty(context.Background(), DifficultyParams{UserID: "u1", Threshold: 0.6, Limit: 20})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ExerciseID)
	assert.Equal(t, "e1", got[1].ExerciseID)
	assert.Equal(t, 1.0, *got[0].ExerciseDifficulty)

	require.Len(t, reader.calls, 1)
	assert.Equal(t, 0.6, reader.calls[0].params["threshold"])
	assert.Equal(t, int64(20), reader.calls[0].params["limit"])
}

func TestByDifficulty_NullDifficultySortsLast(t *testing.T) {
	reader := newFakeReader()
	reader.records["recommend_by_difficulty"] = []*neo4j.Record{
		record(difficultyKeys, "e-null", "s1", 0.9, nil),
		record(difficultyKeys, "e-low", "s2", 0.7, 1.0),
		record(difficultyKeys, "e-hard", "s1", 0.9, 5.0),
	}

	got, err := NewEngine(reader).ByDifficulty(context.Background(), DifficultyParams{UserID: "u1", Threshold: 0.6, Limit: 5})
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ExerciseID)
	}
	assert.Equal(t, []string{"e-hard", "e-null", "e-low"}, ids)
	assert.Nil(t, got[1].ExerciseDifficulty)
}

func TestStrategies_ClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int64
	}{
		{"zero", 0, 1},
		{"negative", -5, 1},
		{"inside", 42, 42},
		{"too large", 5000, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := newFakeReader()
			_, err := NewEngine(reader).MultiHop(context.Background(), MultiHopParams{
				UserID: "u1", DifficultyThreshold: 0.6, PerformanceThreshold: 0.75, Limit: tt.limit,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, reader.calls[0].params["limit"])
		})
	}
}

func TestStrategies_RejectBadInputBeforeQuerying(t *testing.T) {
	reader := newFakeReader()
	engine := NewEngine(reader)
	ctx := context.Background()

	_, err := engine.ByDifficulty(ctx, DifficultyParams{UserID: "", Threshold: 0.5})
	assert.True(t, apperrors.IsValidation(err))
	_, err = engine.ByDifficulty(ctx, DifficultyParams{UserID: "u1", Threshold: 1.2})
	assert.True(t, apperrors.IsValidation(err))
	_, err = engine.BySimilarUsers(ctx, SimilarUsersParams{UserID: "u1", SimilarityThreshold: -0.1})
	assert.True(t, apperrors.IsValidation(err))
	_, err = engine.ByErrorsAndInterests(ctx, ErrorsParams{UserID: "u1", FrequencyThreshold: math.NaN()})
	assert.True(t, apperrors.IsValidation(err))
	_, err = engine.ByInterests(ctx, InterestsParams{UserID: "u1", MinErrorScore: 3})
	assert.True(t, apperrors.IsValidation(err))
	_, err = engine.RecommendCourses(ctx, "", 5)
	assert.True(t, apperrors.IsValidation(err))
	_, err = engine.Recommend(ctx, "", DefaultLimits())
	assert.True(t, apperrors.IsValidation(err))
	_, err = engine.MultiHop(ctx, MultiHopParams{UserID: "   "})
	assert.True(t, apperrors.IsValidation(err))
	_, err = engine.RecommendCourses(ctx, "\t", 5)
	assert.True(t, apperrors.IsValidation(err))
	_, err = engine.Recommend(ctx, "  ", DefaultLimits())
	assert.True(t, apperrors.IsValidation(err))

	assert.Zero(t, reader.callCount())
}

func TestBySimilarUsers_Ordering(t *testing.T) {
	keys := []string{"exercise_id", "skill_id", "performance", "similarity"}
	reader := newFakeReader()
	reader.records["recommend_by_similar_users"] = []*neo4j.Record{
		record(keys, "e1", "s1", 0.85, 0.81),
		record(keys, "e2", "s1", 0.95, 0.80),
		record(keys, "e3", "s2", 0.85, 0.99),
	}

	got, err := NewEngine(reader).BySimilarUsers(context.Background(), SimilarUsersParams{
		UserID: "u1", DifficultyThreshold: 0.6, SimilarityThreshold: 0.8, PerformanceThreshold: 0.8, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e2", got[0].ExerciseID)
	assert.Equal(t, "e3", got[1].ExerciseID)
	assert.Equal(t, "e1", got[2].ExerciseID)
}

func TestByErrorsAndInterests_MissingInterestSortsLast(t *testing.T) {
	keys := []string{"exercise_id", "error_id", "frequency", "interest_weight"}
	reader := newFakeReader()
	reader.records["recommend_by_errors_and_interests"] = []*neo4j.Record{
		record(keys, "e-plain", "err1", 0.9, nil),
		record(keys, "e-tagged", "err1", 0.9, 0.4),
		record(keys, "e-rare", "err2", 0.7, 1.0),
	}

	got, err := NewEngine(reader).ByErrorsAndInterests(context.Background(), ErrorsParams{
		UserID: "u1", FrequencyThreshold: 0.7, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e-tagged", got[0].ExerciseID)
	assert.Equal(t, "e-plain", got[1].ExerciseID)
	assert.Nil(t, got[1].InterestWeight)
	assert.Equal(t, "e-rare", got[2].ExerciseID)
}

func TestByInterests_Ordering(t *testing.T) {
	keys := []string{"exercise_id", "interest_id", "interest_weight", "error_score"}
	reader := newFakeReader()
	reader.records["recommend_by_interests"] = []*neo4j.Record{
		record(keys, "e1", "i1", 0.6, 0.2),
		record(keys, "e2", "i2", 0.9, 0.1),
		record(keys, "e3", "i1", 0.6, 0.7),
	}

	got, err := NewEngine(reader).ByInterests(context.Background(), InterestsParams{
		UserID: "u1", WeightThreshold: 0.5, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"e2", "e3", "e1"}, []string{got[0].ExerciseID, got[1].ExerciseID, got[2].ExerciseID})
}

func TestMultiHop_DedupsAndRanks(t *testing.T) {
	keys := []string{"exercise_id", "source_users", "related_skill", "avg_correct_ratio"}
	reader := newFakeReader()
	reader.records["recommend_multi_hop"] = []*neo4j.Record{
		record(keys, "e7", []interface{}{"u2"}, "s1", 0.8),
		record(keys, "e9", []interface{}{"u2", "u3"}, "s1", 0.95),
		record(keys, "e7", []interface{}{"u4"}, "s2", 0.7),
		record(keys, "e5", []interface{}{"u3"}, "s1", nil),
	}

	got, err := NewEngine(reader).MultiHop(context.Background(), MultiHopParams{
		UserID: "u1", DifficultyThreshold: 0.6, PerformanceThreshold: 0.75, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e9", got[0].ExerciseID)
	assert.Equal(t, []string{"u2", "u3"}, got[0].SourceUsers)
	assert.Equal(t, "e7", got[1].ExerciseID)
	assert.Equal(t, []string{"u2"}, got[1].SourceUsers)
	assert.Equal(t, "e5", got[2].ExerciseID)
}

func TestRecommendCourses(t *testing.T) {
	reader := newFakeReader()
	reader.records["recommend_courses"] = []*neo4j.Record{
		record([]string{"course_id", "score"}, "c2", int64(3)),
		record([]string{"course_id", "score"}, "c3", int64(1)),
	}

	got, err := NewEngine(reader).RecommendCourses(context.Background(), "u1", DefaultCourseLimit)
	require.NoError(t, err)
	assert.Equal(t, []CourseCandidate{{CourseID: "c2", Score: 3}, {CourseID: "c3", Score: 1}}, got)
	assert.Equal(t, int64(5), reader.calls[0].params["limit"])
}

func TestRecommend_RunsThreeStrategies(t *testing.T) {
	reader := newFakeReader()
	reader.records["recommend_by_difficulty"] = []*neo4j.Record{record(difficultyKeys, "e1", "s1", 0.8, 2.0)}

	res, err := NewEngine(reader).Recommend(context.Background(), "u1", Limits{ByDifficulty: 1000})
	require.NoError(t, err)
	require.Len(t, res.ByDifficulty, 1)
	assert.Empty(t, res.BySimilarUsers)
	assert.Empty(t, res.ByErrorsAndInterests)

	require.Equal(t, 3, reader.callCount())
	limits := map[string]interface{}{}
	for _, c := range reader.calls {
		limits[c.operation] = c.params["limit"]
	}
	assert.Equal(t, int64(200), limits["recommend_by_difficulty"])
	assert.Equal(t, int64(1), limits["recommend_by_similar_users"])
}

func TestRecommend_StrategyFailureFailsCall(t *testing.T) {
	reader := newFakeReader()
	reader.errs["recommend_by_similar_users"] = apperrors.NewStoreUnavailable("neo4j", "read", errors.New("connection refused"))

	_, err := NewEngine(reader).Recommend(context.Background(), "u1", DefaultLimits())
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreUnavailable(err))
}

// memoryCache stores JSON like the Redis cache does
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func TestRecommend_ServesSecondCallFromCache(t *testing.T) {
	reader := newFakeReader()
	reader.records["recommend_by_difficulty"] = []*neo4j.Record{record(difficultyKeys, "e1", "s1", 0.8, 2.0)}
	cache := &memoryCache{entries: map[string][]byte{}}
	engine := NewEngine(reader, WithCache(cache))

	first, err := engine.Recommend(context.Background(), "u1", DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 3, reader.callCount())

	second, err := engine.Recommend(context.Background(), "u1", DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 3, reader.callCount())
	assert.Equal(t, first.ByDifficulty, second.ByDifficulty)
	assert.Contains(t, cache.entries, cacheKey("u1", DefaultLimits()))
}

func TestRecommend_CachedResultOutlivesGraphChange(t *testing.T) {
	reader := newFakeReader()
	reader.records["recommend_by_difficulty"] = []*neo4j.Record{record(difficultyKeys, "e1", "s1", 0.8, 2.0)}
	cache := &memoryCache{entries: map[string][]byte{}}
	engine := NewEngine(reader, WithCache(cache))
	ctx := context.Background()

	_, err := engine.Recommend(ctx, "u1", DefaultLimits())
	require.NoError(t, err)

	reader.mu.Lock()
	reader.records["recommend_by_difficulty"] = []*neo4j.Record{record(difficultyKeys, "e9", "s1", 0.9, 1.0)}
	reader.mu.Unlock()

	cached, err := engine.Recommend(ctx, "u1", DefaultLimits())
	require.NoError(t, err)
	require.Len(t, cached.ByDifficulty, 1)
	assert.Equal(t, "e1", cached.ByDifficulty[0].ExerciseID)

	// Single strategies bypass the cache
	direct, err := engine.ByDifficulty(ctx, DifficultyParams{UserID: "u1", Threshold: DefaultDifficultyThreshold, Limit: DefaultLimit})
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, "e9", direct[0].ExerciseID)
}

func TestRecommend_CacheErrorFallsBackToGraph(t *testing.T) {
	reader := newFakeReader()
	cache := &memoryCache{entries: map[string][]byte{}, getErr: errors.New("redis down")}

	_, err := NewEngine(reader, WithCache(cache)).Recommend(context.Background(), "u1", DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 3, reader.callCount())
}

func TestCompareHelpers(t *testing.T) {
	one, two := 1.0, 2.0
	assert.Negative(t, compareDesc(&two, &one))
	assert.Negative(t, compareDesc(&one, nil))
	assert.Positive(t, compareDesc(nil, &one))
	assert.Zero(t, compareDesc(nil, nil))
	assert.Negative(t, compareAsc(&one, &two))
	assert.Negative(t, compareAsc(&two, nil))
}

func TestQueries_ThresholdsAreInclusive(t *testing.T) {
	comparison := regexp.MustCompile(`(>=|>|<=|<)\s*\$(\w*threshold|min_error_score)`)
	for name, q := range map[string]string{
		StrategyByDifficulty:         queryByDifficulty,
		StrategyBySimilarUsers:       queryBySimilarUsers,
		StrategyByErrorsAndInterests: queryByErrorsAndInterests,
		StrategyByInterests:          queryByInterests,
		StrategyMultiHop:             queryMultiHop,
	} {
		matches := comparison.FindAllStringSubmatch(q, -1)
		require.NotEmpty(t, matches, name)
		for _, m := range matches {
			assert.Equal(t, ">=", m[1], "%s compares %s with %s", name, m[2], m[1])
		}
	}
}
