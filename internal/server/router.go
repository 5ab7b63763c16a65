package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/kiosk-api/api/swagger"
	"github.com/noah-isme/kiosk-api/internal/handler"
	"github.com/noah-isme/kiosk-api/internal/middleware"
	"github.com/noah-isme/kiosk-api/internal/models"
	"github.com/noah-isme/kiosk-api/pkg/config"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
	"github.com/noah-isme/kiosk-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/kiosk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/kiosk-api/pkg/middleware/requestid"
	"github.com/noah-isme/kiosk-api/pkg/response"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Kiosk   *handler.KioskHandler
	Export  *handler.ExportHandler
	Weather *handler.WeatherHandler
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
	Metrics *handler.MetricsHandler
}

// NewRouter builds the gin engine with the shared middleware chain and all kiosk routes.
func NewRouter(cfg *config.Config, h Handlers, tokens middleware.TokenValidator, observer middleware.RequestObserver, logr *zap.Logger) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}
	prefix := cfg.APIPrefix

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, prefix+"/classes", prefix+"/substitutions", prefix+"/weather"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(observer))
	r.Use(middleware.WithResponseMeta())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(prefix)
	api.GET("/kiosk/settings", h.Kiosk.Settings)
	api.GET("/weather", h.Weather.Current)

	classes := api.Group("/classes")
	classes.GET("", h.Kiosk.Classes)
	classes.GET("/:name/state", h.Kiosk.State)
	classes.GET("/:name/agenda", h.Kiosk.Agenda)
	classes.GET("/:name/week", h.Kiosk.Week)
	classes.GET("/:name/substitutions", h.Kiosk.ClassSubstitutions)

	api.GET("/substitutions", h.Kiosk.Substitutions)
	api.GET("/substitutions/grouped", h.Kiosk.GroupedSubstitutions)

	exports := api.Group("/exports")
	exports.GET("/agenda/:name", h.Export.Agenda)
	exports.GET("/substitutions", h.Export.Substitutions)

	api.POST("/admin/login", h.Auth.Login)
	admin := api.Group("/admin", middleware.JWT(tokens), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/status", h.Admin.Status)
	admin.POST("/reload", middleware.Audit(logr, "snapshot.reload"), h.Admin.Reload)
	admin.PUT("/passcode", middleware.Audit(logr, "passcode.change"), h.Auth.ChangePasscode)

	return r
}
