package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chidubem/paylinq/internal/models"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ValidationResponse struct {
	Error  string             `json:"error"`
	Errors models.FieldErrors `json:"errors"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithFieldErrors returns field-level validation failures keyed by the
// offending field so the client can attach each message to its input.
func RespondWithFieldErrors(c *gin.Context, errs models.FieldErrors) {
	c.JSON(http.StatusBadRequest, ValidationResponse{
		Error:  HTTPStatusText(http.StatusBadRequest),
		Errors: errs,
	})
}

// RespondWithStateConflict maps a disallowed status transition to 409 so the
// client can tell "this link can no longer be edited" apart from a
// validation slip.
func RespondWithStateConflict(c *gin.Context, err error) {
	c.JSON(http.StatusConflict, ErrorResponse{
		Error:   HTTPStatusText(http.StatusConflict),
		Message: err.Error(),
	})
}
