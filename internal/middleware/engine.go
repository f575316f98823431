package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineConfig carries the global middleware settings of NewEngine.
type EngineConfig struct {
	Logger    *zap.Logger
	Metrics   *Metrics
	ClientURL string
	// TrustedProxies lists the proxies whose X-Forwarded-For is honoured.
	// Empty means ClientIP is always the remote address.
	TrustedProxies []string
}

// NewEngine returns a gin engine with the global middleware installed in order:
// request log, metrics, panic recovery, CORS. Metrics wrap recovery so recovered
// panics are counted as 500s.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(RequestLogger(logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Handler())
	}
	router.Use(RecoveryMiddleware(logger))
	router.Use(CORSMiddleware(cfg.ClientURL))
	return router, nil
}
