package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers auth routes.
func RegisterRoutes(r *gin.Engine, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", handler.SignUp)
		authGroup.POST("/login", handler.Login)
		authGroup.GET("/me", handler.Me)
	}
}
