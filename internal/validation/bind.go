package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindAndValidate binds the JSON body into out and validates it. On
// failure it writes a 400 response and returns an error so the handler
// can short-circuit.
func BindAndValidate(c *gin.Context, out any, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"type":   "invalid_request_body",
			"title":  http.StatusText(http.StatusBadRequest),
			"status": http.StatusBadRequest,
			"detail": err.Error(),
		})
		return err
	}
	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"type":   "validation_failed",
			"title":  http.StatusText(http.StatusBadRequest),
			"status": http.StatusBadRequest,
			"fields": errorsToMap(err),
		})
		return err
	}
	return nil
}
