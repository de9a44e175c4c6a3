// internal/handlers/object_handler.go

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airwise/internal/boundary"
	"airwise/internal/service"
)

type ObjectHandler struct {
	objects *service.ObjectsService
}

func NewObjectHandler(objects *service.ObjectsService) *ObjectHandler {
	return &ObjectHandler{objects: objects}
}

func (h *ObjectHandler) Create(c *gin.Context) {
	var obj boundary.ObjectBoundary
	if err := c.ShouldBindJSON(&obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.objects.Create(&obj)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ObjectHandler) Get(c *gin.Context) {
	userSystemID, userEmail := actingUser(c)
	obj, err := h.objects.Get(c.Param("systemID"), c.Param("objectId"), userSystemID, userEmail)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, obj)
}

func (h *ObjectHandler) GetAll(c *gin.Context) {
	userSystemID, userEmail := actingUser(c)
	size, page := pagination(c)
	objs, err := h.objects.GetAll(userSystemID, userEmail, size, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, objs)
}

func (h *ObjectHandler) Update(c *gin.Context) {
	var obj boundary.ObjectBoundary
	if err := c.ShouldBindJSON(&obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userSystemID, userEmail := actingUser(c)
	if err := h.objects.Update(c.Param("systemID"), c.Param("objectId"), &obj, userSystemID, userEmail); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *ObjectHandler) BindChild(c *gin.Context) {
	var body boundary.ChildID
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userSystemID, userEmail := actingUser(c)
	if err := h.objects.Bind(c.Param("systemID"), c.Param("objectId"), body.ChildID, userSystemID, userEmail); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *ObjectHandler) GetChildren(c *gin.Context) {
	userSystemID, userEmail := actingUser(c)
	size, page := pagination(c)
	children, err := h.objects.GetChildren(c.Param("systemID"), c.Param("objectId"), userSystemID, userEmail, size, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, children)
}

func (h *ObjectHandler) GetParents(c *gin.Context) {
	userSystemID, userEmail := actingUser(c)
	size, page := pagination(c)
	parents, err := h.objects.GetParents(c.Param("systemID"), c.Param("objectId"), userSystemID, userEmail, size, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, parents)
}

func (h *ObjectHandler) SearchByAlias(c *gin.Context) {
	h.search(c, func(userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
		return h.objects.SearchByAlias(c.Param("alias"), userSystemID, userEmail, size, page)
	})
}

func (h *ObjectHandler) SearchByAliasPattern(c *gin.Context) {
	h.search(c, func(userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
		return h.objects.SearchByAliasPrefix(c.Param("pattern"), userSystemID, userEmail, size, page)
	})
}

func (h *ObjectHandler) SearchByType(c *gin.Context) {
	h.search(c, func(userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
		return h.objects.SearchByType(c.Param("type"), userSystemID, userEmail, size, page)
	})
}

func (h *ObjectHandler) SearchByStatus(c *gin.Context) {
	h.search(c, func(userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
		return h.objects.SearchByStatus(c.Param("status"), userSystemID, userEmail, size, page)
	})
}

func (h *ObjectHandler) SearchByTypeAndStatus(c *gin.Context) {
	h.search(c, func(userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
		return h.objects.SearchByTypeAndStatus(c.Param("type"), c.Param("status"), userSystemID, userEmail, size, page)
	})
}

func (h *ObjectHandler) search(c *gin.Context, find func(userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error)) {
	userSystemID, userEmail := actingUser(c)
	size, page := pagination(c)
	objs, err := find(userSystemID, userEmail, size, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, objs)
}
