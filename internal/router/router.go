package router

import (
	"context"

	"mcpserver/internal/handlers"
	"mcpserver/internal/logger"
	"mcpserver/internal/metrics"
	"mcpserver/internal/middleware"
	"mcpserver/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the route table is built from.
type Deps struct {
	Store   services.NodeStore
	Ping    func(ctx context.Context) error
	Metrics *metrics.Manager
	Logger  logger.Logger
}

// New builds a gin engine with middleware and every route registered.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(deps.Logger.Named("http")),
		middleware.Metrics(deps.Metrics),
	)
	RegisterRoutes(r, deps)
	return r
}

// RegisterRoutes declares each route exactly once.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	nodeHandler := handlers.NewNodeHandler(deps.Store, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Ping, deps.Logger)

	r.GET("/", handlers.Welcome) // 欢迎信息

	nodes := r.Group("/nodes")
	{
		nodes.POST("/", nodeHandler.Create)     // 创建节点
		nodes.GET("/", nodeHandler.List)        // 所有节点列表
		nodes.GET("/:node_id", nodeHandler.Get) // 节点详情
	}

	r.GET("/healthz", healthHandler.Check)               // 健康检查
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler())) // Prometheus 指标

	r.NoRoute(handlers.NotFound)
}
