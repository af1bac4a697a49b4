package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createThreadRequest struct {
	Title    string `json:"title" binding:"required"`
	AuthorID string `json:"author_id" binding:"required"`
}

type createThreadWithCourseRequest struct {
	CourseID string `json:"course_id" binding:"required"`
	Title    string `json:"title" binding:"required"`
	AuthorID string `json:"author_id" binding:"required"`
}

type createPostRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// List queries. The default applies only when limit is absent; an explicit
// value, zero included, goes to the store's range check.
type courseThreadsQuery struct {
	Limit int `form:"limit,default=20"`
}

type threadPostsQuery struct {
	Limit int `form:"limit,default=100"`
}

type userPostsQuery struct {
	Limit int `form:"limit,default=50"`
}

func (s *Server) listThreads(c *gin.Context) {
	var q courseThreadsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	threads, err := s.forum.ListThreadsByCourse(c.Request.Context(), c.Param("course_id"), q.Limit)
	if err != nil {
		respondError(c, s.log, "list_threads", err)
		return
	}
	c.JSON(http.StatusOK, threads)
}

func (s *Server) createThread(c *gin.Context) {
	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	thread, err := s.forum.CreateThread(c.Request.Context(), c.Param("course_id"), req.Title, req.AuthorID)
	if err != nil {
		respondError(c, s.log, "create_thread", err)
		return
	}
	c.JSON(http.StatusCreated, thread)
}

func (s *Server) createThreadWithCourse(c *gin.Context) {
	var req createThreadWithCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	thread, err := s.forum.CreateThread(c.Request.Context(), req.CourseID, req.Title, req.AuthorID)
	if err != nil {
		respondError(c, s.log, "create_thread", err)
		return
	}
	c.JSON(http.StatusCreated, thread)
}

func (s *Server) getThread(c *gin.Context) {
	thread, err := s.forum.GetThread(c.Request.Context(), c.Param("thread_id"))
	if err != nil {
		respondError(c, s.log, "get_thread", err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

func (s *Server) listThreadPosts(c *gin.Context) {
	var q threadPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	posts, err := s.forum.ListPostsByThread(c.Request.Context(), c.Param("thread_id"), q.Limit)
	if err != nil {
		respondError(c, s.log, "list_thread_posts", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (s *Server) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	post, err := s.forum.CreatePost(c.Request.Context(), c.Param("thread_id"), req.UserID, req.Content)
	if err != nil {
		respondError(c, s.log, "create_post", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (s *Server) listUserPosts(c *gin.Context) {
	var q userPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	posts, err := s.forum.ListPostsByUser(c.Request.Context(), c.Param("user_id"), q.Limit)
	if err != nil {
		respondError(c, s.log, "list_user_posts", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
