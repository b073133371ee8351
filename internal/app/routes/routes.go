package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarship/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	verificationController *controllers.VerificationController,
	applicationController *controllers.ApplicationController,
	trackingController *controllers.TrackingController,
	healthController *controllers.HealthController,
) {
	api := router.Group("/api")

	// --- Identity verification ---
	api.POST("/verify", verificationController.Verify)
	api.GET("/get-verified-data", verificationController.GetVerifiedData)

	// --- Application submission ---
	api.POST("/personal-details", applicationController.SubmitPersonalDetails)
	api.POST("/family-details", applicationController.SubmitFamilyDetails)

	// --- Tracking ---
	api.GET("/track", trackingController.Track)

	api.GET("/health", healthController.Health)
}
