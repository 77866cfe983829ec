package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/internal/domain"
)

// Problem writes a simplified RFC 7807 problem document.
func Problem(c *gin.Context, code int, typ, detail string) {
	c.JSON(code, gin.H{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// ProblemFromError maps the domain error taxonomy onto HTTP statuses.
func ProblemFromError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		Problem(c, http.StatusBadRequest, "validation_failed", err.Error())
	case domain.IsNotFound(err):
		Problem(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsConflict(err):
		Problem(c, http.StatusConflict, "conflict", err.Error())
	default:
		Problem(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
