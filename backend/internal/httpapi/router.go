// Package httpapi is the HTTP surface over the forum store, the learning
// graph and the recommendation engine.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"coursehub/backend/internal/forum"
	"coursehub/backend/internal/graph"
	"coursehub/backend/internal/recommend"
)

// ForumStore is the part of *forum.Store the API serves
type ForumStore interface {
	CreateThread(ctx context.Context, courseID, title, authorID string) (*forum.Thread, error)
	ListThreadsByCourse(ctx context.Context, courseID string, limit int) ([]forum.ThreadSummary, error)
	GetThread(ctx context.Context, threadID string) (*forum.Thread, error)
	CreatePost(ctx context.Context, threadID, userID, content string) (*forum.Post, error)
	ListPostsByThread(ctx context.Context, threadID string, limit int) ([]forum.Post, error)
	ListPostsByUser(ctx context.Context, userID string, limit int) ([]forum.Post, error)
}

// GraphStore is the part of *graph.Repository the API serves
type GraphStore interface {
	GetUser(ctx context.Context, userID string) (*graph.User, error)
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
	LogRecommendation(ctx context.Context, rec graph.Recommendation) error
	RegisterProgress(ctx context.Context, p graph.Progress) error
}

// Recommender is the part of *recommend.Engine the API serves
type Recommender interface {
	ByDifficulty(ctx context.Context, p recommend.DifficultyParams) ([]recommend.DifficultyCandidate, error)
	BySimilarUsers(ctx context.Context, p recommend.SimilarUsersParams) ([]recommend.SimilarUserCandidate, error)
	ByErrorsAndInterests(ctx context.Context, p recommend.ErrorsParams) ([]recommend.ErrorInterestCandidate, error)
	ByInterests(ctx context.Context, p recommend.InterestsParams) ([]recommend.InterestCandidate, error)
	MultiHop(ctx context.Context, p recommend.MultiHopParams) ([]recommend.MultiHopCandidate, error)
	RecommendCourses(ctx context.Context, userID string, limit int) ([]recommend.CourseCandidate, error)
	Recommend(ctx context.Context, userID string, limits recommend.Limits) (*recommend.Results, error)
}

// Options configures the router
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	Production     bool
}

// Server holds the handler dependencies
type Server struct {
	forum  ForumStore
	graph  GraphStore
	engine Recommender
	log    *zap.Logger
}

// NewRouter wires every route onto a new gin engine
func NewRouter(forumStore ForumStore, graphStore GraphStore, engine Recommender, log *zap.Logger, opts Options) *gin.Engine {
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{forum: forumStore, graph: graphStore, engine: engine, log: log}

	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(opts.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", requestTimeout(opts.RequestTimeout))
	{
		api.GET("/courses/:course_id/threads", s.listThreads)
		api.POST("/courses/:course_id/threads", s.createThread)
		api.POST("/threads", s.createThreadWithCourse)
		api.GET("/threads/:thread_id", s.getThread)
		api.GET("/threads/:thread_id/posts", s.listThreadPosts)
		api.POST("/threads/:thread_id/posts", s.createPost)
		api.GET("/users/:user_id/posts", s.listUserPosts)
	}

	rec := router.Group("/recommend", requestTimeout(opts.RequestTimeout))
	{
		rec.POST("/progress", s.registerProgress)
		rec.GET("/courses/:user_id", s.recommendCourses)

		rec.GET("/users/:user_id", s.getUser)
		rec.POST("/users", s.upsertUser)
		rec.POST("/exercises", s.upsertExercise)
		rec.POST("/skills", s.upsertSkill)
		rec.POST("/interests", s.upsertInterest)
		rec.POST("/error-types", s.upsertErrorType)

		rec.POST("/performance", s.registerPerformance)
		rec.POST("/difficulty", s.setDifficulty)
		rec.POST("/user-errors", s.setUserError)
		rec.POST("/user-interests", s.setUserInterest)
		rec.POST("/tags", s.tagExercise)
		rec.POST("/similarity", s.setSimilarity)
		rec.POST("/log", s.logRecommendation)

		patterns := rec.Group("/patterns")
		{
			patterns.GET("/by-difficulty", s.byDifficulty)
			patterns.GET("/by-similar-users", s.bySimilarUsers)
			patterns.GET("/by-errors", s.byErrors)
			patterns.GET("/by-interests", s.byInterests)
			patterns.GET("/multi-hop", s.multiHop)
		}

		rec.GET("/combined/:user_id", s.combined)

		// Older clients fetch course recommendations here
		rec.GET("/:user_id", s.recommendCourses)
	}

	return router
}
