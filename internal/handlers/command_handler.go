// internal/handlers/command_handler.go

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airwise/internal/boundary"
	"airwise/internal/service"
)

type CommandHandler struct {
	commands *service.CommandsService
}

func NewCommandHandler(commands *service.CommandsService) *CommandHandler {
	return &CommandHandler{commands: commands}
}

// Invoke accepts a command envelope and returns whatever the handler
// produced; the response shape is command-dependent.
func (h *CommandHandler) Invoke(c *gin.Context) {
	var cmd boundary.CommandBoundary
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.commands.Invoke(&cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
