package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/apperrors"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// Error maps a service error onto its HTTP status. Anything outside
// the known taxonomy is an internal error and its detail is not sent
// to the client.
func Error(c *gin.Context, err error) {
	var (
		validation       *apperrors.ValidationError
		notFound         *apperrors.NotFoundError
		badRequest       *apperrors.BadRequestError
		methodNotAllowed *apperrors.MethodNotAllowedError
		internal         *apperrors.InternalServerError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, APIResponse{
			Status:  "error",
			Message: "Validation failed",
			Fields:  validation.Fields,
		})
	case errors.As(err, &notFound):
		Fail(c, http.StatusNotFound, notFound, "Not found")
	case errors.As(err, &badRequest):
		Fail(c, http.StatusBadRequest, badRequest, "Bad request")
	case errors.As(err, &methodNotAllowed):
		Fail(c, http.StatusMethodNotAllowed, methodNotAllowed, "Method not allowed")
	case errors.As(err, &internal):
		Fail(c, http.StatusInternalServerError, internal, "Internal server error")
	default:
		Fail(c, http.StatusInternalServerError, nil, "Internal server error")
	}
}
