package v1

import "github.com/gin-gonic/gin"

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/healthz", h.HandleHealth)

	apiRouter := router.Group("/api/v1")

	authRouter := apiRouter.Group("/auth")
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/refresh", h.HandleRefresh)
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)
	authRouter.GET("/me", h.HandleAuthMiddleware, h.HandleMe)

	tasksRouter := apiRouter.Group("/tasks", h.HandleAuthMiddleware)
	tasksRouter.GET("/today", h.HandleGetDailyView)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.POST("/carry-over", h.HandleCarryOver)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.PATCH("/:id", h.HandleUpdateTask)
	tasksRouter.POST("/:id/toggle", h.HandleToggleTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
}
