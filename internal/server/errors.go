package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// JSONError writes a JSON error body and records err on the context for the access log.
func JSONError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{
		Error: Error{
			Type:    http.StatusText(status),
			Message: err.Error(),
		},
	})
}
