package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursereviews/internal/domain"
	"coursereviews/internal/middleware"
	"coursereviews/internal/pkg/response"
	"coursereviews/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the aggregation routes. authed must run TokenAuth;
// admins see every review, other students only visible ones.
func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	if public != nil {
		public.POST("/getReviewsByCourseId", h.ClassReviews)
	}
	if authed != nil {
		authed.POST("/totalReviews", h.TotalReviews)
		authed.POST("/howManyReviewsEachClass", h.HowManyReviewsEachClass)
		authed.POST("/howManyEachClass", h.HowManyEachClass)
		authed.POST("/topSubjects", h.TopSubjects)
	}
}

func scopeOf(c *gin.Context) domain.Scope {
	return domain.ScopeFor(middleware.CurrentStudent(c))
}

func (h *Handler) TotalReviews(c *gin.Context) {
	total, err := h.svc.TotalReviews(c.Request.Context(), scopeOf(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Result(c, http.StatusOK, total)
}

func (h *Handler) HowManyReviewsEachClass(c *gin.Context) {
	out, err := h.svc.ReviewsPerClass(c.Request.Context(), scopeOf(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Result(c, http.StatusOK, out)
}

func (h *Handler) HowManyEachClass(c *gin.Context) {
	out, err := h.svc.ClassesPerSubject(c.Request.Context(), scopeOf(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Result(c, http.StatusOK, out)
}

func (h *Handler) TopSubjects(c *gin.Context) {
	var req TopSubjectsRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	out, err := h.svc.TopSubjects(c.Request.Context(), scopeOf(c), req.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Result(c, http.StatusOK, out)
}

func (h *Handler) ClassReviews(c *gin.Context) {
	var req ClassReviewsRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	out, err := h.svc.ClassReviews(c.Request.Context(), req.CourseID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Result(c, http.StatusOK, out)
}
