// internal/handlers/admin_handler.go

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airwise/internal/service"
)

// AdminHandler is the export-and-wipe surface. Every operation requires
// the ADMIN role; the acting user rides in the query string like
// everywhere else.
type AdminHandler struct {
	objects  *service.ObjectsService
	users    *service.UsersService
	commands *service.CommandsService
}

func NewAdminHandler(objects *service.ObjectsService, users *service.UsersService, commands *service.CommandsService) *AdminHandler {
	return &AdminHandler{objects: objects, users: users, commands: commands}
}

func (h *AdminHandler) ExportUsers(c *gin.Context) {
	userSystemID, userEmail := actingUser(c)
	size, page := pagination(c)
	users, err := h.users.GetAll(userSystemID, userEmail, size, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) ExportCommands(c *gin.Context) {
	userSystemID, userEmail := actingUser(c)
	size, page := pagination(c)
	history, err := h.commands.History(userSystemID, userEmail, size, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *AdminHandler) DeleteAllObjects(c *gin.Context) {
	userSystemID, userEmail := actingUser(c)
	if err := h.objects.DeleteAll(userSystemID, userEmail); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *AdminHandler) DeleteAllUsers(c *gin.Context) {
	userSystemID, userEmail := actingUser(c)
	if err := h.users.DeleteAll(userSystemID, userEmail); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *AdminHandler) DeleteAllCommands(c *gin.Context) {
	userSystemID, userEmail := actingUser(c)
	if err := h.commands.DeleteAll(userSystemID, userEmail); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
