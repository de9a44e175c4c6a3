// api/router.go

package api

import (
	"github.com/gin-gonic/gin"

	"airwise/internal/handlers"
)

// Register wires the full REST surface onto the router. The order of the
// search routes matters: gin resolves static segments before the
// parameterized object routes.
func Register(
	router *gin.Engine,
	objectHandler *handlers.ObjectHandler,
	commandHandler *handlers.CommandHandler,
	userHandler *handlers.UserHandler,
	adminHandler *handlers.AdminHandler,
) {
	objects := router.Group("/objects")
	{
		objects.POST("", objectHandler.Create)
		objects.GET("", objectHandler.GetAll)

		search := objects.Group("/search")
		{
			search.GET("/byAlias/:alias", objectHandler.SearchByAlias)
			search.GET("/byAliasPattern/:pattern", objectHandler.SearchByAliasPattern)
			search.GET("/byType/:type", objectHandler.SearchByType)
			search.GET("/byStatus/:status", objectHandler.SearchByStatus)
			search.GET("/byTypeAndStatus/:type/:status", objectHandler.SearchByTypeAndStatus)
		}

		objects.GET("/:systemID/:objectId", objectHandler.Get)
		objects.PUT("/:systemID/:objectId", objectHandler.Update)
		objects.GET("/:systemID/:objectId/children", objectHandler.GetChildren)
		objects.PUT("/:systemID/:objectId/children", objectHandler.BindChild)
		objects.GET("/:systemID/:objectId/parents", objectHandler.GetParents)
	}

	router.POST("/commands", commandHandler.Invoke)

	users := router.Group("/users")
	{
		users.POST("", userHandler.Create)
		users.GET("/login/:systemID/:email", userHandler.Login)
		users.PUT("/:systemID/:email", userHandler.Update)
	}

	admin := router.Group("/admin")
	{
		admin.GET("/users", adminHandler.ExportUsers)
		admin.GET("/commands", adminHandler.ExportCommands)
		admin.DELETE("/objects", adminHandler.DeleteAllObjects)
		admin.DELETE("/users", adminHandler.DeleteAllUsers)
		admin.DELETE("/commands", adminHandler.DeleteAllCommands)
	}
}
