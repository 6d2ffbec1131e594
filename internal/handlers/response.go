package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Status: "success", Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Status: "success", Message: message, Data: data})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Status: "error", Message: message})
}

// pathID parses a numeric path parameter; a respondError(400) has already
// been written when ok is false.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
