package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub/backend/internal/forum"
	"coursehub/backend/internal/graph"
)

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["migrate"])
	assert.True(t, names["seed"])

	assert.NotNil(t, seedCmd.Flags().Lookup("skip-forum"))
	assert.NotNil(t, seedCmd.Flags().Lookup("skip-graph"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("timeout"))
}

type recordingForum struct {
	threads int
	posts   map[string]int
	failOn  string
}

func (r *recordingForum) CreateThread(_ context.Context, courseID, title, authorID string) (*forum.Thread, error) {
	if title == r.failOn {
		return nil, errors.New("unavailable")
	}
	r.threads++
	return &forum.Thread{ThreadID: uuid.New(), CourseID: courseID, Title: title, AuthorID: authorID, CreatedAt: time.Now()}, nil
}

func (r *recordingForum) CreatePost(_ context.Context, threadID, userID, content string) (*forum.Post, error) {
	r.posts[threadID]++
	return &forum.Post{PostID: uuid.New(), UserID: userID, Content: content}, nil
}

func TestSeedForum(t *testing.T) {
	store := &recordingForum{posts: map[string]int{}}
	var out bytes.Buffer

	require.NoError(t, seedForum(context.Background(), store, &out))
	assert.Equal(t, len(sampleThreads), store.threads)

	total := 0
	for _, n := range store.posts {
		total += n
	}
	assert.Equal(t, 8, total)
	assert.Contains(t, out.String(), "for course es_basics")
}

func TestSeedForum_StopsOnError(t *testing.T) {
	store := &recordingForum{posts: map[string]int{}, failOn: sampleThreads[1].Title}
	err := seedForum(context.Background(), store, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, 1, store.threads)
}

// validatingGraph runs the same input checks as the repository
type validatingGraph struct {
	writes int
}

func (v *validatingGraph) check(in interface{}) error {
	v.writes++
	return graph.Validate(in)
}

func (v *validatingGraph) UpsertUser(_ context.Context, p graph.UserPatch) error { return v.check(p) }
func (v *validatingGraph) UpsertExercise(_ context.Context, p graph.ExercisePatch) error {
	return v.check(p)
}
func (v *validatingGraph) UpsertSkill(_ context.Context, p graph.SkillPatch) error { return v.check(p) }
func (v *validatingGraph) UpsertInterest(_ context.Context, p graph.InterestPatch) error {
	return v.check(p)
}
func (v *validatingGraph) UpsertErrorType(_ context.Context, p graph.ErrorTypePatch) error {
	return v.check(p)
}
func (v *validatingGraph) RegisterPerformance(_ context.Context, p graph.Performance) error {
	return v.check(p)
}
func (v *validatingGraph) SetDifficulty(_ context.Context, d graph.Difficulty) error { return v.check(d) }
func (v *validatingGraph) SetUserError(_ context.Context, e graph.UserError) error   { return v.check(e) }
func (v *validatingGraph) SetUserInterest(_ context.Context, i graph.UserInterest) error {
	return v.check(i)
}
func (v *validatingGraph) TagExercise(_ context.Context, _ string, tag graph.Tag) error {
	return v.check(tag)
}
func (v *validatingGraph) SetSimilarityPairs(_ context.Context, pairs []graph.SimilarityPair) error {
	for _, p := range pairs {
		if err := v.check(p); err != nil {
			return err
		}
	}
	return nil
}
func (v *validatingGraph) RegisterProgress(_ context.Context, p graph.Progress) error {
	return v.check(p)
}

func TestSeedGraph_InputsAreValid(t *testing.T) {
	repo := &validatingGraph{}
	var links []evaluatesLink
	writeEvaluates := func(_ context.Context, l []evaluatesLink) error {
		links = l
		return nil
	}

	require.NoError(t, seedGraph(context.Background(), repo, writeEvaluates, &bytes.Buffer{}))
	assert.NotZero(t, repo.writes)
	assert.Len(t, links, 4)
}

func TestSampleGraph_IsConnected(t *testing.T) {
	g := newSampleGraph()

	exercises := map[string]bool{}
	for _, e := range g.Exercises {
		exercises[e.ID] = true
	}
	skills := map[string]bool{}
	for _, s := range g.Skills {
		skills[s.ID] = true
	}
	for _, l := range g.Evaluates {
		assert.True(t, exercises[l.ExerciseID], l.ExerciseID)
		assert.True(t, skills[l.SkillID], l.SkillID)
	}
	for exerciseID := range g.Tags {
		assert.True(t, exercises[exerciseID], exerciseID)
	}
	for _, p := range g.Performances {
		assert.True(t, exercises[p.ExerciseID], p.ExerciseID)
	}
}
