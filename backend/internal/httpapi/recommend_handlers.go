package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursehub/backend/internal/recommend"
)

// bindAndQuery decodes query parameters into P, with defaults from its form
// tags, and returns the strategy's candidates
func bindAndQuery[P, R any](s *Server, operation string, run func(ctx context.Context, p P) ([]R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p P
		if err := c.ShouldBindQuery(&p); err != nil {
			badRequest(c, err)
			return
		}
		out, err := run(c.Request.Context(), p)
		if err != nil {
			respondError(c, s.log, operation, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func (s *Server) byDifficulty(c *gin.Context) {
	bindAndQuery(s, recommend.StrategyByDifficulty, s.engine.ByDifficulty)(c)
}

func (s *Server) bySimilarUsers(c *gin.Context) {
	bindAndQuery(s, recommend.StrategyBySimilarUsers, s.engine.BySimilarUsers)(c)
}

func (s *Server) byErrors(c *gin.Context) {
	bindAndQuery(s, recommend.StrategyByErrorsAndInterests, s.engine.ByErrorsAndInterests)(c)
}

func (s *Server) byInterests(c *gin.Context) {
	bindAndQuery(s, recommend.StrategyByInterests, s.engine.ByInterests)(c)
}

func (s *Server) multiHop(c *gin.Context) {
	bindAndQuery(s, recommend.StrategyMultiHop, s.engine.MultiHop)(c)
}

type courseRecommendationsQuery struct {
	Limit int `form:"limit,default=5"`
}

func (s *Server) recommendCourses(c *gin.Context) {
	var q courseRecommendationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	courses, err := s.engine.RecommendCourses(c.Request.Context(), c.Param("user_id"), q.Limit)
	if err != nil {
		respondError(c, s.log, "recommend_courses", err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (s *Server) combined(c *gin.Context) {
	var limits recommend.Limits
	if err := c.ShouldBindQuery(&limits); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.engine.Recommend(c.Request.Context(), c.Param("user_id"), limits)
	if err != nil {
		respondError(c, s.log, "recommend", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
