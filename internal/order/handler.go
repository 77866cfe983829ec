package order

import (
	"net/http"

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
	r.POST("/orders", h.createOrder)
	r.GET("/orders/:id", h.getOrder)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req domain.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	o, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		httpx.ProblemFromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) getOrder(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.ProblemFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.NewOrderView(*o))
}
