package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pateando/pateando-api/controllers"
	"github.com/pateando/pateando-api/lifecycle"
	"github.com/pateando/pateando-api/middleware"
)

// SetupRoutes registers every API route. The Portuguese segments are
// kept for compatibility with the shipped mobile frontend.
func SetupRoutes(router *gin.Engine) {
	controllers.RegisterValidators()

	router.GET("/health", HealthCheck)

	users := router.Group("/users")
	{
		users.POST("", controllers.CreateUser)
		users.GET("", controllers.ListUsers)
		users.POST("/login", controllers.Login)
		users.GET("/:id", controllers.GetUser)
		users.DELETE("/:id", controllers.DeleteUser)
		users.GET("/:id/statistics", controllers.GetUserStatistics)
	}

	pets := router.Group("/pets")
	{
		pets.POST("/create/:userId", controllers.CreatePet)
		pets.GET("/user/:userId", controllers.ListPetsByUser)
		pets.DELETE("/delete/:id", controllers.DeletePet)
	}

	walkers := router.Group("/walkers")
	{
		walkers.POST("/criar", controllers.CreateWalker)
		walkers.GET("", controllers.ListWalkers)
		walkers.GET("/disponiveis", controllers.ListAvailableWalkers)
		walkers.GET("/:id", controllers.GetWalker)
		walkers.GET("/user/:userId", controllers.GetWalkerByUser)
		walkers.PUT("/:id/disponibilidade", controllers.UpdateAvailability)
		walkers.POST("/:id/photo", middleware.AuthRequired(), controllers.UploadWalkerPhoto)
	}

	appointments := router.Group("/appointments")
	{
		appointments.POST("/criar", controllers.CreateAppointment)
		appointments.GET("", controllers.ListAppointments)
		appointments.GET("/:id", controllers.GetAppointment)
		appointments.GET("/client/:id", controllers.ListAppointmentsByClient)
		appointments.GET("/walker/:id", controllers.ListAppointmentsByWalker)
		appointments.GET("/walker/user/:userId", controllers.ListAppointmentsByWalkerUser)
		appointments.GET("/status/:status", controllers.ListAppointmentsByStatus)
		appointments.DELETE("/:id", controllers.DeleteAppointment)
		for _, cmd := range lifecycle.Commands() {
			appointments.PUT("/:id/"+string(cmd), controllers.TransitionAppointment(cmd))
		}
	}
}

// HealthCheck handles the health check endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pateando API is running",
	})
}
