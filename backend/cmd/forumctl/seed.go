package main

import (
	"context"
	"fmt"
	"io"

	"coursehub/backend/internal/forum"
	"coursehub/backend/internal/graph"
)

type samplePost struct {
	UserID  string
	Content string
}

type sampleThread struct {
	CourseID string
	Title    string
	AuthorID string
	Posts    []samplePost
}

var sampleThreads = []sampleThread{
	{
		CourseID: "es_basics",
		Title:    "Tips for irregular verbs",
		AuthorID: "u001",
		Posts: []samplePost{
			{"u002", "Remember ser/ir share the same past forms."},
			{"u003", "I like pairing flashcards with audio."},
			{"u004", "Focus on the 20 most common verbs first."},
		},
	},
	{
		CourseID: "travel_pack",
		Title:    "Best phrases for airports",
		AuthorID: "u005",
		Posts: []samplePost{
			{"u006", "Boarding gate and delayed are must know."},
			{"u007", "Practice security checkpoint questions."},
		},
	},
	{
		CourseID: "en_basics",
		Title:    "Plural rules that always trip me up",
		AuthorID: "u008",
		Posts: []samplePost{
			{"u009", "Watch out for endings in -ch and -sh."},
			{"u010", "Irregular plurals: child/children, foot/feet."},
			{"u011", "Zero/plural count nouns are tricky too."},
		},
	},
}

type forumWriter interface {
	CreateThread(ctx context.Context, courseID, title, authorID string) (*forum.Thread, error)
	CreatePost(ctx context.Context, threadID, userID, content string) (*forum.Post, error)
}

func seedForum(ctx context.Context, store forumWriter, out io.Writer) error {
	for _, st := range sampleThreads {
		thread, err := store.CreateThread(ctx, st.CourseID, st.Title, st.AuthorID)
		if err != nil {
			return fmt.Errorf("create thread %q: %w", st.Title, err)
		}
		fmt.Fprintf(out, "Created thread %s for course %s\n", thread.ThreadID, thread.CourseID)

		for _, sp := range st.Posts {
			post, err := store.CreatePost(ctx, thread.ThreadID.String(), sp.UserID, sp.Content)
			if err != nil {
				return fmt.Errorf("create post in %s: %w", thread.ThreadID, err)
			}
			fmt.Fprintf(out, "  Post %s by %s\n", post.PostID, post.UserID)
		}
	}
	return nil
}

type evaluatesLink struct {
	ExerciseID string
	SkillID    string
}

// sampleGraph is a small learning graph that gives every strategy something
// to return for learner u001
type sampleGraph struct {
	Users        []graph.UserPatch
	Skills       []graph.SkillPatch
	Exercises    []graph.ExercisePatch
	Interests    []graph.InterestPatch
	ErrorTypes   []graph.ErrorTypePatch
	Evaluates    []evaluatesLink
	Tags         map[string][]graph.Tag
	Difficulties []graph.Difficulty
	UserErrors   []graph.UserError
	UserInterest []graph.UserInterest
	Performances []graph.Performance
	Similarities []graph.SimilarityPair
	Progress     []graph.Progress
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func int64Ptr(n int64) *int64     { return &n }

func newSampleGraph() sampleGraph {
	return sampleGraph{
		Users: []graph.UserPatch{
			{ID: "u001", PrimaryLanguage: strPtr("en"), CurrentLevel: strPtr("A2"), Streak: int64Ptr(4)},
			{ID: "u002", PrimaryLanguage: strPtr("en"), CurrentLevel: strPtr("B1"), Streak: int64Ptr(12)},
			{ID: "u003", PrimaryLanguage: strPtr("pt"), CurrentLevel: strPtr("A2"), Streak: int64Ptr(1)},
		},
		Skills: []graph.SkillPatch{
			{ID: "s_past_tense", Name: strPtr("Past tense"), Category: strPtr("grammar"), Level: strPtr("A2")},
			{ID: "s_plurals", Name: strPtr("Plurals"), Category: strPtr("grammar"), Level: strPtr("A1")},
			{ID: "s_travel_vocab", Name: strPtr("Travel vocabulary"), Category: strPtr("vocabulary"), Level: strPtr("A2")},
		},
		Exercises: []graph.ExercisePatch{
			{ID: "ex_ser_ir", Type: strPtr("fill_blank"), Difficulty: floatPtr(3), Language: strPtr("es")},
			{ID: "ex_preterite_drill", Type: strPtr("multiple_choice"), Difficulty: floatPtr(1), Language: strPtr("es")},
			{ID: "ex_plural_match", Type: strPtr("matching"), Difficulty: floatPtr(1), Language: strPtr("en")},
			{ID: "ex_airport_dialog", Type: strPtr("listening"), Difficulty: floatPtr(2), Language: strPtr("es")},
		},
		Interests: []graph.InterestPatch{
			{ID: "i_travel", Name: strPtr("Travel"), Category: strPtr("lifestyle")},
		},
		ErrorTypes: []graph.ErrorTypePatch{
			{ID: "err_verb_agreement", Description: strPtr("Subject-verb agreement"), Category: strPtr("grammar")},
		},
		Evaluates: []evaluatesLink{
			{"ex_ser_ir", "s_past_tense"},
			{"ex_preterite_drill", "s_past_tense"},
			{"ex_plural_match", "s_plurals"},
			{"ex_airport_dialog", "s_travel_vocab"},
		},
		Tags: map[string][]graph.Tag{
			"ex_preterite_drill": {{Kind: graph.TagErrorType, ID: "err_verb_agreement"}},
			"ex_airport_dialog":  {{Kind: graph.TagInterest, ID: "i_travel"}, {Kind: graph.TagErrorType, ID: "err_verb_agreement"}},
		},
		Difficulties: []graph.Difficulty{
			{UserID: "u001", SkillID: "s_past_tense", ErrorScore: 0.8},
			{UserID: "u001", SkillID: "s_travel_vocab", ErrorScore: 0.3},
		},
		UserErrors: []graph.UserError{
			{UserID: "u001", ErrorID: "err_verb_agreement", Frequency: 0.75},
		},
		UserInterest: []graph.UserInterest{
			{UserID: "u001", InterestID: "i_travel", Weight: 0.9},
		},
		Performances: []graph.Performance{
			{UserID: "u002", ExerciseID: "ex_preterite_drill", CorrectRatio: 0.9, Attempts: graph.SetAttempts(3)},
			{UserID: "u002", ExerciseID: "ex_airport_dialog", CorrectRatio: 0.85, Attempts: graph.SetAttempts(2)},
			{UserID: "u003", ExerciseID: "ex_ser_ir", CorrectRatio: 0.8, Attempts: graph.SetAttempts(5)},
			{UserID: "u003", ExerciseID: "ex_plural_match", CorrectRatio: 0.95, Attempts: graph.SetAttempts(1)},
		},
		Similarities: []graph.SimilarityPair{
			{UserID: "u001", OtherUserID: "u002", Score: 0.87, Metric: "cosine"},
			{UserID: "u001", OtherUserID: "u003", Score: 0.62, Metric: "cosine"},
		},
		Progress: []graph.Progress{
			{UserID: "u001", CourseID: "es_basics", Level: strPtr("A1")},
			{UserID: "u002", CourseID: "es_basics", Level: strPtr("A1")},
			{UserID: "u002", CourseID: "travel_pack", Level: strPtr("A2")},
			{UserID: "u003", CourseID: "es_basics"},
			{UserID: "u003", CourseID: "en_basics"},
		},
	}
}

type graphWriter interface {
	UpsertUser(ctx context.Context, patch graph.UserPatch) error
	UpsertExercise(ctx context.Context, patch graph.ExercisePatch) error
	UpsertSkill(ctx context.Context, patch graph.SkillPatch) error
	UpsertInterest(ctx context.Context, patch graph.InterestPatch) error
	UpsertErrorType(ctx context.Context, patch graph.ErrorTypePatch) error
	RegisterPerformance(ctx context.Context, p graph.Performance) error
	SetDifficulty(ctx context.Context, d graph.Difficulty) error
	SetUserError(ctx context.Context, e graph.UserError) error
	SetUserInterest(ctx context.Context, i graph.UserInterest) error
	TagExercise(ctx context.Context, exerciseID string, tag graph.Tag) error
	SetSimilarityPairs(ctx context.Context, pairs []graph.SimilarityPair) error
	RegisterProgress(ctx context.Context, p graph.Progress) error
}

func seedGraph(ctx context.Context, repo graphWriter, writeEvaluates func(context.Context, []evaluatesLink) error, out io.Writer) error {
	g := newSampleGraph()

	for _, u := range g.Users {
		if err := repo.UpsertUser(ctx, u); err != nil {
			return err
		}
	}
	for _, s := range g.Skills {
		if err := repo.UpsertSkill(ctx, s); err != nil {
			return err
		}
	}
	for _, e := range g.Exercises {
		if err := repo.UpsertExercise(ctx, e); err != nil {
			return err
		}
	}
	for _, i := range g.Interests {
		if err := repo.UpsertInterest(ctx, i); err != nil {
			return err
		}
	}
	for _, et := range g.ErrorTypes {
		if err := repo.UpsertErrorType(ctx, et); err != nil {
			return err
		}
	}
	if err := writeEvaluates(ctx, g.Evaluates); err != nil {
		return fmt.Errorf("evaluates: %w", err)
	}
	for exerciseID, tags := range g.Tags {
		for _, tag := range tags {
			if err := repo.TagExercise(ctx, exerciseID, tag); err != nil {
				return err
			}
		}
	}
	for _, d := range g.Difficulties {
		if err := repo.SetDifficulty(ctx, d); err != nil {
			return err
		}
	}
	for _, e := range g.UserErrors {
		if err := repo.SetUserError(ctx, e); err != nil {
			return err
		}
	}
	for _, i := range g.UserInterest {
		if err := repo.SetUserInterest(ctx, i); err != nil {
			return err
		}
	}
	for _, p := range g.Performances {
		if err := repo.RegisterPerformance(ctx, p); err != nil {
			return err
		}
	}
	if err := repo.SetSimilarityPairs(ctx, g.Similarities); err != nil {
		return err
	}
	for _, p := range g.Progress {
		if err := repo.RegisterProgress(ctx, p); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Seeded graph: %d users, %d exercises, %d skills\n", len(g.Users), len(g.Exercises), len(g.Skills))
	return nil
}
