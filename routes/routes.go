package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthguide/handlers"
	"healthguide/middleware"
	"healthguide/utils"
)

// Options configures the global middleware.
type Options struct {
	AllowedOrigins []string
	ClientTokenTTL time.Duration
	SecureCookie   bool
	Logger         *zap.Logger
}

// RegisterAssistantRoutes registers the triage journey endpoints. Every route
// runs inside a browser session.
func RegisterAssistantRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	api := r.Group("/api/assistant")
	{
		api.Use(middleware.ClientSession(opts.ClientTokenTTL, opts.SecureCookie))
		api.Use(middleware.RequestLogger(opts.Logger))

		api.GET("/state", hb.GetState)
		api.POST("/symptoms", hb.SubmitSymptoms)
		api.POST("/temperature", hb.SubmitTemperature)
		api.POST("/chat", hb.Chat)

		api.POST("/location/gps", hb.ReportGPS)
		api.POST("/location/manual", hb.ManualLocation)
		api.POST("/providers/close", hb.CloseProviders)
		api.POST("/ambulance/dismiss", hb.DismissAmbulancePrompt)
		api.POST("/quick-actions/:intent", hb.QuickAction)

		api.GET("/reminders", hb.ListReminders)
		api.POST("/reminders", hb.CreateReminder)
		api.DELETE("/reminders/:id", hb.StopReminder)
		api.GET("/reminders/frequency-options", hb.FrequencyOptions)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ClientTokenTTL <= 0 {
		opts.ClientTokenTTL = 12 * time.Hour
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", utils.ClientTokenHeader, utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", utils.ClientTokenHeader, utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAssistantRoutes(r, hb, opts)
	RegisterHealthRoute(r, hb)
}
