package registration

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/config"
	mw "github.com/PatelKrish-16/crease/internal/middleware"
	"github.com/PatelKrish-16/crease/pkg/rmiddleware"
)

func RegisterRegistrationRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {

	regRepo := NewGormRegistrationRepository(db)
	regController := NewRegistrationController(regRepo, appConfig)

	// Sign-up is public; the season's registration form posts here.
	router.POST("/registrations", regController.CreateRegistration)

	adminRegs := router.Group("/registrations")
	adminRegs.Use(mw.AuthMiddleware(jwtSecret, db), rmiddleware.AdminMiddleware())
	{
		adminRegs.GET("", regController.GetRegistrations)
		adminRegs.GET("/:registration_id", regController.GetRegistrationByID)
		adminRegs.PUT("/:registration_id", regController.UpdateRegistration)
		adminRegs.DELETE("/:registration_id", regController.DeleteRegistration)
	}
}
