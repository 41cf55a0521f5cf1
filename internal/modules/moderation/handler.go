package moderation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursereviews/internal/domain"
	"coursereviews/internal/middleware"
	"coursereviews/internal/pkg/logger"
	"coursereviews/internal/pkg/response"
	"coursereviews/internal/pkg/validator"
)

type Handler struct {
	svc *Service
	hub *Hub
}

func NewHandler(svc *Service, hub *Hub) *Handler {
	return &Handler{svc: svc, hub: hub}
}

// RegisterRoutes mounts the moderation routes. admin must run TokenAuth
// followed by AdminOnly.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	if public != nil {
		public.POST("/reportReview", h.ReportReview)
	}
	if admin != nil {
		admin.POST("/resolveReport", h.ResolveReport)
		admin.POST("/fetchReviewsByReported", h.ListReported)
		if h.hub != nil {
			admin.GET("/moderation/events", h.Events)
		}
	}
}

func (h *Handler) ReportReview(c *gin.Context) {
	var req ReportRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	if err := h.svc.ReportReview(c.Request.Context(), req.ID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Result(c, http.StatusOK, true)
}

func (h *Handler) ResolveReport(c *gin.Context) {
	var req ResolveRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	rv, err := h.svc.ResolveReport(c.Request.Context(), middleware.CurrentStudent(c), req.ID, domain.Outcome(req.Outcome))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Result(c, http.StatusOK, rv)
}

func (h *Handler) ListReported(c *gin.Context) {
	out, err := h.svc.ListReported(c.Request.Context(), middleware.CurrentStudent(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Result(c, http.StatusOK, out)
}

// Events streams moderation events over a websocket: GET /moderation/events?token=...
func (h *Handler) Events(c *gin.Context) {
	student := middleware.CurrentStudent(c)
	if err := h.hub.Serve(c.Writer, c.Request, student.ID); err != nil {
		logger.FromContext(c.Request.Context()).Warn("websocket upgrade failed", "error", err.Error())
	}
}
