package restapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups the handlers mounted by SetupRouter.
type Handlers struct {
	Chain    *ChainHandler
	Balances *BalanceHandler
	Convert  *ConvertHandler
}

// SetupRouter builds the gin engine with CORS, request logging, recovery,
// the v1 API and the prometheus endpoint.
func SetupRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))
	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/chain", h.Chain.GetChainHandler)
		v1.GET("/balances", h.Balances.GetBalancesHandler)
		v1.GET("/convert", h.Convert.GetConvertHandler)
		v1.GET("/units", GetUnitsHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// ZapLoggerMiddleware logs one line per request.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String(), fields...)
			return
		}
		logger.Debug("Request handled", fields...)
	}
}
