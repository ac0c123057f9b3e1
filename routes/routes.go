package routes

import (
	"net/http"
	"time"

	"studybuddy/handlers"
	"studybuddy/middleware"
	"studybuddy/models"
	"studybuddy/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAuthRoutes registers the public account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.LoginHandler)
	}
}

// RegisterTutorRoutes registers tutor listing and profile endpoints. Reads
// are public; profile updates go through the token check.
func RegisterTutorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tutors")
	{
		api.GET("", hb.GetTutorsHandler)
		api.GET("/:id", hb.GetTutorByIDHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.RequireAuth), middleware.RequireRole(models.RoleTutor))
		protected.PUT("/:userId", hb.UpdateTutorHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"message":      "Hi, I'm StudyBuddy",
			"dependencies": utils.GetHealthStatus(),
		})
	})
}

// RegisterMetricsRoute exposes the Prometheus registry.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and CORS.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterTutorRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
}

// NewRouter builds the engine with the global middleware chain and every route.
func NewRouter(hb *handlers.HandlerBundle, maxRequestsPerMin int) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.PrometheusMiddleware())
	router.Use(middleware.RateLimitMiddleware(maxRequestsPerMin))

	RegisterRoutes(router, hb)
	return router
}
