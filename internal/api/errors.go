package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketlens/internal/model"
)

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInsufficientData),
		errors.Is(err, model.ErrInvalidInterval),
		errors.Is(err, model.ErrInvalidRange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
