package graph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests require a running Neo4j instance.
// Set NEO4J_TEST_URI, NEO4J_TEST_USER and NEO4J_TEST_PASSWORD to enable them.
func createTestRepository(t *testing.T) (*Repository, neo4j.DriverWithContext) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("NEO4J_TEST_URI not set")
	}

	ctx := context.Background()
	driver, err := neo4j.NewDriverWithContext(uri,
		neo4j.BasicAuth(os.Getenv("NEO4J_TEST_USER"), os.Getenv("NEO4J_TEST_PASSWORD"), ""))
	require.NoError(t, err)
	require.NoError(t, driver.VerifyConnectivity(ctx))
	t.Cleanup(func() { _ = driver.Close(ctx) })

	repo := NewRepository(driver, "")
	require.NoError(t, repo.EnsureConstraints(ctx))
	return repo, driver
}

func cleanupNodes(t *testing.T, driver neo4j.DriverWithContext, ids ...string) {
	t.Cleanup(func() {
		ctx := context.Background()
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (n) WHERE n.id IN $ids DETACH DELETE n", map[string]interface{}{"ids": ids})
	})
}

func readEdgeProperty(t *testing.T, repo *Repository, query string, params map[string]interface{}, key string) interface{} {
	t.Helper()
	records, err := repo.ReadRecords(context.Background(), "test_read", query, params)
	require.NoError(t, err)
	require.Len(t, records, 1)
	val, _ := records[0].Get(key)
	return val
}

func testID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func TestRepository_UpsertUserIsIdempotentSparsePatch(t *testing.T) {
	repo, driver := createTestRepository(t)
	ctx := context.Background()
	userID := testID("u")
	cleanupNodes(t, driver, userID)

	lang, level := "es", "A2"
	streak := int64(4)
	patch := UserPatch{ID: userID, PrimaryLanguage: &lang, CurrentLevel: &level, Streak: &streak}

	require.NoError(t, repo.UpsertUser(ctx, patch))
	first, err := repo.GetUser(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, repo.UpsertUser(ctx, patch))
	second, err := repo.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Absent fields keep their stored values
	newLevel := "B1"
	require.NoError(t, repo.UpsertUser(ctx, UserPatch{ID: userID, CurrentLevel: &newLevel}))
	third, err := repo.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "es", *third.PrimaryLanguage)
	assert.Equal(t, "B1", *third.CurrentLevel)
	assert.Equal(t, int64(4), *third.Streak)
}

func TestRepository_RegisterPerformanceAttemptsModes(t *testing.T) {
	repo, driver := createTestRepository(t)
	ctx := context.Background()
	userID, exerciseID := testID("u"), testID("e")
	cleanupNodes(t, driver, userID, exerciseID)

	query := `MATCH (:User {id: $u})-[p:PERFORMED]->(:Exercise {id: $e}) RETURN p.attempts as attempts, p.correct_ratio as ratio`
	params := map[string]interface{}{"u": userID, "e": exerciseID}

	perf := Performance{UserID: userID, ExerciseID: exerciseID, CorrectRatio: 0.4}
	require.NoError(t, repo.RegisterPerformance(ctx, perf))
	assert.Equal(t, int64(1), readEdgeProperty(t, repo, query, params, "attempts"))

	perf.CorrectRatio = 0.6
	require.NoError(t, repo.RegisterPerformance(ctx, perf))
	assert.Equal(t, int64(2), readEdgeProperty(t, repo, query, params, "attempts"))
	assert.Equal(t, 0.6, readEdgeProperty(t, repo, query, params, "ratio"))

	perf.Attempts = SetAttempts(10)
	require.NoError(t, repo.RegisterPerformance(ctx, perf))
	assert.Equal(t, int64(10), readEdgeProperty(t, repo, query, params, "attempts"))

	perf.Attempts = IncrementAttempts()
	require.NoError(t, repo.RegisterPerformance(ctx, perf))
	assert.Equal(t, int64(11), readEdgeProperty(t, repo, query, params, "attempts"))
}

func TestRepository_LogRecommendationKeepsLatestOnly(t *testing.T) {
	repo, driver := createTestRepository(t)
	ctx := context.Background()
	userID, exerciseID := testID("u"), testID("e")
	cleanupNodes(t, driver, userID, exerciseID)

	accepted := true
	require.NoError(t, repo.LogRecommendation(ctx, Recommendation{
		UserID: userID, ExerciseID: exerciseID, Strategy: "by_difficulty",
		Timestamp: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, repo.LogRecommendation(ctx, Recommendation{
		UserID: userID, ExerciseID: exerciseID, Strategy: "multi_hop", Accepted: &accepted,
	}))

	query := `MATCH (:User {id: $u})-[r:RECOMMENDED]->(:Exercise {id: $e})
	          RETURN count(r) as edges, collect(r.strategy)[0] as strategy, collect(r.accepted)[0] as accepted`
	params := map[string]interface{}{"u": userID, "e": exerciseID}
	assert.Equal(t, int64(1), readEdgeProperty(t, repo, query, params, "edges"))
	assert.Equal(t, "multi_hop", readEdgeProperty(t, repo, query, params, "strategy"))
	assert.Equal(t, true, readEdgeProperty(t, repo, query, params, "accepted"))
}

func TestRepository_TagAndSimilarityAreIdempotent(t *testing.T) {
	repo, driver := createTestRepository(t)
	ctx := context.Background()
	exerciseID, interestID := testID("e"), testID("i")
	u1, u2 := testID("u"), testID("u")
	cleanupNodes(t, driver, exerciseID, interestID, u1, u2)

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.TagExercise(ctx, exerciseID, Tag{Kind: TagInterest, ID: interestID}))
		require.NoError(t, repo.SetSimilarityPairs(ctx, []SimilarityPair{
			{UserID: u1, OtherUserID: u2, Score: 0.8 + float64(i)/10, Metric: "cosine"},
		}))
	}

	assert.Equal(t, int64(1), readEdgeProperty(t, repo,
		`MATCH (:Exercise {id: $e})-[t:TAGGED_AS]->(:Interest {id: $i}) RETURN count(t) as n`,
		map[string]interface{}{"e": exerciseID, "i": interestID}, "n"))
	assert.InDelta(t, 0.9, readEdgeProperty(t, repo,
		`MATCH (:User {id: $a})-[s:SIMILAR_TO]->(:User {id: $b}) RETURN s.similarity_score as score`,
		map[string]interface{}{"a": u1, "b": u2}, "score"), 1e-9)
}
