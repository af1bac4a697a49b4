package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coursehub/backend/internal/graph"
)

type performanceRequest struct {
	UserID       string     `json:"user_id"`
	ExerciseID   string     `json:"exercise_id"`
	CorrectRatio *float64   `json:"correct_ratio" binding:"required"`
	Attempts     *int64     `json:"attempts"`
	PerformedAt  *time.Time `json:"performed_at"`
}

// toPerformance maps an omitted attempts field to an increment
func (r performanceRequest) toPerformance() graph.Performance {
	p := graph.Performance{
		UserID:       r.UserID,
		ExerciseID:   r.ExerciseID,
		CorrectRatio: *r.CorrectRatio,
		Attempts:     graph.IncrementAttempts(),
	}
	if r.Attempts != nil {
		p.Attempts = graph.SetAttempts(*r.Attempts)
	}
	if r.PerformedAt != nil {
		p.PerformedAt = *r.PerformedAt
	}
	return p
}

type tagRequest struct {
	ExerciseID string        `json:"exercise_id"`
	Kind       graph.TagKind `json:"kind"`
	TagID      string        `json:"tag_id"`
}

type similarityRequest struct {
	Pairs []graph.SimilarityPair `json:"pairs"`
}

// bindAndWrite decodes the JSON body into T and hands it to write
func bindAndWrite[T any](s *Server, operation string, write func(ctx context.Context, in T) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
		if err := write(c.Request.Context(), in); err != nil {
			respondError(c, s.log, operation, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.graph.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, s.log, "get_user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) upsertUser(c *gin.Context) {
	bindAndWrite(s, "upsert_user", s.graph.UpsertUser)(c)
}

func (s *Server) upsertExercise(c *gin.Context) {
	bindAndWrite(s, "upsert_exercise", s.graph.UpsertExercise)(c)
}

func (s *Server) upsertSkill(c *gin.Context) {
	bindAndWrite(s, "upsert_skill", s.graph.UpsertSkill)(c)
}

func (s *Server) upsertInterest(c *gin.Context) {
	bindAndWrite(s, "upsert_interest", s.graph.UpsertInterest)(c)
}

func (s *Server) upsertErrorType(c *gin.Context) {
	bindAndWrite(s, "upsert_error_type", s.graph.UpsertErrorType)(c)
}

func (s *Server) registerPerformance(c *gin.Context) {
	bindAndWrite(s, "register_performance", func(ctx context.Context, r performanceRequest) error {
		return s.graph.RegisterPerformance(ctx, r.toPerformance())
	})(c)
}

func (s *Server) setDifficulty(c *gin.Context) {
	bindAndWrite(s, "set_difficulty", s.graph.SetDifficulty)(c)
}

func (s *Server) setUserError(c *gin.Context) {
	bindAndWrite(s, "set_user_error", s.graph.SetUserError)(c)
}

func (s *Server) setUserInterest(c *gin.Context) {
	bindAndWrite(s, "set_user_interest", s.graph.SetUserInterest)(c)
}

func (s *Server) tagExercise(c *gin.Context) {
	bindAndWrite(s, "tag_exercise", func(ctx context.Context, r tagRequest) error {
		return s.graph.TagExercise(ctx, r.ExerciseID, graph.Tag{Kind: r.Kind, ID: r.TagID})
	})(c)
}

func (s *Server) setSimilarity(c *gin.Context) {
	bindAndWrite(s, "set_similarity_pairs", func(ctx context.Context, r similarityRequest) error {
		return s.graph.SetSimilarityPairs(ctx, r.Pairs)
	})(c)
}

func (s *Server) logRecommendation(c *gin.Context) {
	bindAndWrite(s, "log_recommendation", s.graph.LogRecommendation)(c)
}

func (s *Server) registerProgress(c *gin.Context) {
	bindAndWrite(s, "register_progress", s.graph.RegisterProgress)(c)
}
