// internal/handlers/user_handler.go

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airwise/internal/boundary"
	"airwise/internal/service"
)

type UserHandler struct {
	users *service.UsersService
}

func NewUserHandler(users *service.UsersService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Create(c *gin.Context) {
	var newUser boundary.NewUserBoundary
	if err := c.ShouldBindJSON(&newUser); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.users.Create(&newUser)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Login returns the user record for a known email. A 403 means the email
// is not registered yet; clients treat that as "go register".
func (h *UserHandler) Login(c *gin.Context) {
	user, err := h.users.Login(c.Param("systemID"), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var update boundary.UserBoundary
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.users.Update(c.Param("systemID"), c.Param("email"), &update); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
