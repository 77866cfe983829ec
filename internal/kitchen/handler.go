package kitchen

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"tableside/internal/common/httpx"
	"tableside/internal/domain"
	"tableside/internal/validation"
)

type Handler struct {
	svc *Service
	v   *validatorv10.Validate
}

func NewHandler(svc *Service, v *validatorv10.Validate) *Handler {
	return &Handler{svc: svc, v: v}
}

func (h *Handler) Register(r *gin.Engine) {
	r.POST("/kitchen/orders/:id/start", h.startOrder)
	r.POST("/kitchen/orders/:id/complete", h.completeOrder)
	r.GET("/kitchen/leaderboard", h.leaderboard)
}

func (h *Handler) startOrder(c *gin.Context) {
	var req domain.StartOrderRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	o, err := h.svc.Start(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		httpx.ProblemFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.NewOrderView(*o))
}

func (h *Handler) completeOrder(c *gin.Context) {
	var req domain.CompleteOrderRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	resp, err := h.svc.Complete(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpx.ProblemFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) leaderboard(c *gin.Context) {
	limit := atoiDefault(c.Query("limit"), defaultLeaderboardLimit)
	entries, err := h.svc.Leaderboard(c.Request.Context(), c.Query("restaurantId"), limit)
	if err != nil {
		httpx.ProblemFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
