package career

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/config"
	mw "github.com/PatelKrish-16/crease/internal/middleware"
	"github.com/PatelKrish-16/crease/pkg/rmiddleware"
)

// RegisterCareerRoutes wires the career ledger and season rollover
// endpoints. The service is constructed by the router because it spans the
// stats, registration and lock stores.
func RegisterCareerRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string, service *Service) {

	careerController := NewCareerController(service, appConfig)

	publicCareer := router.Group("/career")
	{
		publicCareer.GET("", careerController.GetCareers)
		publicCareer.GET("/:identity", careerController.GetCareer)
	}

	adminSeasons := router.Group("/seasons")
	adminSeasons.Use(mw.AuthMiddleware(jwtSecret, db), rmiddleware.AdminMiddleware())
	{
		adminSeasons.POST("/rollover", careerController.Rollover)
		adminSeasons.POST("/restore/:batch_id", careerController.Restore)
	}
}
