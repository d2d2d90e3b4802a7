package api

import (
	"time"

	"mediafetch/internal/downloader"
	"mediafetch/internal/ratelimit"
	"mediafetch/internal/telemetry"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const traceIDKey = "trace_id"

type Server struct {
	downloader *downloader.Downloader
	limiter    *ratelimit.Limiter
	logger     *zap.Logger

	// proxies whose X-Forwarded-For is believed, nil trusts none
	trustedProxies []string

	filesServed metric.Int64Counter
}

func NewServer(d *downloader.Downloader, limiter *ratelimit.Limiter, logger *zap.Logger, trustedProxies []string) *Server {
	filesServed, _ := telemetry.Meter().Int64Counter("files.served",
		metric.WithDescription("finished downloads handed to clients"))
	return &Server{
		downloader:     d,
		limiter:        limiter,
		logger:         logger,
		trustedProxies: trustedProxies,
		filesServed:    filesServed,
	}
}

// Router wires every endpoint and the middleware chain.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.New()
	// client IPs key the rate limiter, so forwarding headers are only
	// honoured from configured proxies
	if err := r.SetTrustedProxies(s.trustedProxies); err != nil {
		return nil, err
	}

	requestDuration, err := telemetry.Meter().Float64Histogram(
		"http.server.duration",
		metric.WithDescription("duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		s.logger.Warn("request duration histogram unavailable", zap.Error(err))
	}

	r.Use(
		ginzap.Ginzap(s.logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(s.logger, true),
		cors.Default(),
		otelgin.Middleware(telemetry.ServiceName),
		traceIDMiddleware,
	)
	if requestDuration != nil {
		r.Use(durationMiddleware(requestDuration))
	}
	r.Use(errorMiddleware(s.logger))

	r.GET("/health", s.health)
	r.GET("/", s.root)

	api := r.Group("/api")
	api.GET("", s.apiBase)
	api.GET("/files/:filename", s.file)

	limited := api.Group("", rateLimitMiddleware(s.limiter))
	limited.POST("/info", s.info)
	limited.POST("/download", s.download)

	return r, nil
}
