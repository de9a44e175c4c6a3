// internal/demoac/handler.go

package demoac

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func validDemoMode(mode string) bool {
	switch mode {
	case "auto", "cool", "heat", "fan", "dry":
		return true
	}
	return false
}

func validDemoFanSpeed(speed string) bool {
	switch speed {
	case "auto", "low", "medium", "high":
		return true
	}
	return false
}

// GetState answers GET /api/ac/:serial.
func (h *Handler) GetState(c *gin.Context) {
	unit, err := h.store.Get(c.Param("serial"))
	if err != nil {
		if errors.Is(err, ErrUnknownSerial) {
			c.JSON(http.StatusNotFound, gin.H{"message": "AC not found", "acState": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error", "acState": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Success", "acState": unit})
}

// SetState answers POST /api/ac/:serial/set. Fields absent from the body
// keep their stored value; present fields are type-checked first, before
// the serial is even looked up.
func (h *Handler) SetState(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body.", "acState": nil})
		return
	}

	var (
		power       *bool
		temperature *float64
		mode        *string
		fanSpeed    *string
	)

	if raw, ok := body["power"]; ok {
		v, isBool := raw.(bool)
		if !isBool {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid type for power. Expected boolean.", "acState": nil})
			return
		}
		power = &v
	}
	if raw, ok := body["temperature"]; ok {
		v, isNum := raw.(float64)
		if !isNum || v < 16 || v > 30 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid type for temperature. Expected number between 16 and 30.", "acState": nil})
			return
		}
		temperature = &v
	}
	if raw, ok := body["mode"]; ok {
		v, isStr := raw.(string)
		if !isStr || !validDemoMode(v) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid mode value.", "acState": nil})
			return
		}
		mode = &v
	}
	if raw, ok := body["fanSpeed"]; ok {
		v, isStr := raw.(string)
		if !isStr || !validDemoFanSpeed(v) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid fanSpeed value.", "acState": nil})
			return
		}
		fanSpeed = &v
	}

	unit, err := h.store.Update(c.Param("serial"), func(u *DeviceState) {
		if power != nil {
			u.Power = *power
		}
		if temperature != nil {
			u.Temperature = *temperature
		}
		if mode != nil {
			u.Mode = *mode
		}
		if fanSpeed != nil {
			u.FanSpeed = *fanSpeed
		}
	})
	if err != nil {
		if errors.Is(err, ErrUnknownSerial) {
			c.JSON(http.StatusNotFound, gin.H{"message": "AC not found", "acState": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error", "acState": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "AC state updated", "acState": unit})
}

// Register mounts the demo registry routes.
func (h *Handler) Register(router *gin.Engine) {
	ac := router.Group("/api/ac")
	{
		ac.GET("/:serial", h.GetState)
		ac.POST("/:serial/set", h.SetState)
	}
}
