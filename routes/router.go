package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/config"
	"github.com/PatelKrish-16/crease/internal/auth"
	"github.com/PatelKrish-16/crease/internal/career"
	"github.com/PatelKrish-16/crease/internal/engine"
	"github.com/PatelKrish-16/crease/internal/match"
	"github.com/PatelKrish-16/crease/internal/registration"
	"github.com/PatelKrish-16/crease/internal/standings"
	"github.com/PatelKrish-16/crease/internal/stats"
	"github.com/PatelKrish-16/crease/internal/team"
)

// SetupRoutes builds the gin engine and wires every route group. The stats
// aggregator, standings calculator and career service are constructed here
// because they span several stores and are shared between route groups.
func SetupRoutes(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`
			<html>
				<head><title>Crease</title></head>
				<body style="text-align:center; margin-top: 40px;">
					<h1>Crease 🏏</h1>
					<p>Tournament statistics engine. See <a href="/swagger/index.html">the API docs</a>.</p>
				</body>
			</html>
		`))
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	jwtSecret := appConfig.JWT.AccessTokenSecret

	lockManager := engine.NewLockManager(db, time.Duration(appConfig.Engine.LockTTLMinutes)*time.Minute)
	matchRepo := match.NewGormMatchRepository(db)
	statsRepo := stats.NewStatsRepository(db)
	teamRepo := team.NewTeamRepository(db)

	standingsService := standings.NewService(matchRepo, teamRepo, standings.NewStandingsRepository(db))
	aggregator := stats.NewAggregator(
		matchRepo,
		statsRepo,
		lockManager,
		standingsService,
		time.Duration(appConfig.Engine.SuppressWindowSeconds)*time.Second,
	)
	careerService := career.NewService(
		career.NewGormCareerRepository(db),
		statsRepo,
		registration.NewGormRegistrationRepository(db),
		lockManager,
	)

	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	team.RegisterTeamRoutes(api, db, appConfig, jwtSecret)
	registration.RegisterRegistrationRoutes(api, db, appConfig, jwtSecret)
	match.RegisterMatchRoutes(api, db, appConfig, jwtSecret, aggregator)
	stats.RegisterStatsRoutes(api, db, jwtSecret, aggregator, statsRepo)
	standings.RegisterStandingsRoutes(api, db, jwtSecret, standingsService)
	career.RegisterCareerRoutes(api, db, appConfig, jwtSecret, careerService)

	return r
}
