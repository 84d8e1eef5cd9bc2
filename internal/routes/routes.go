package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"axiestudio/internal/handlers"
	"axiestudio/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	emailHandler *handlers.EmailHandler,
	favoritesHandler *handlers.FavoritesHandler,
	ollamaHandler *handlers.OllamaHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.POST("/signup", userHandler.Signup)

	email := r.Group("/email")
	{
		email.GET("/verify", emailHandler.VerifyEmail)
		email.POST("/resend", emailHandler.ResendVerification)
		email.POST("/forgot-password", emailHandler.ForgotPassword)
		email.POST("/verify-reset-code", emailHandler.VerifyResetCode)
		email.POST("/change-password", emailHandler.ChangePasswordWithCode)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	users := r.Group("/users")
	{
		users.GET("/me", userHandler.Me)
		users.PUT("/me", userHandler.UpdateMe)
		users.GET("/", middleware.RequireSuperuser(), userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUserByID)
		users.DELETE("/:id", middleware.RequireSuperuser(), userHandler.DeleteUser)
	}

	favorites := r.Group("/favorites")
	{
		favorites.POST("/", favoritesHandler.Add)
		favorites.GET("/", favoritesHandler.List)
		favorites.DELETE("/:item_id", favoritesHandler.Remove)
		favorites.GET("/check/:item_id", favoritesHandler.Check)
	}

	llms := r.Group("/local-llms")
	{
		llms.GET("/status", ollamaHandler.Status)
		llms.GET("/models", ollamaHandler.Models)
		llms.GET("/models/:name", ollamaHandler.ShowModel)
		llms.POST("/models/pull", ollamaHandler.PullModel)
		llms.DELETE("/models", ollamaHandler.DeleteModel)
	}

	return r
}
