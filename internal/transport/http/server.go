package adminhttp

// 中文说明：
// 管理面 HTTP 服务：决策日志查询、人工覆盖管理、参数档案查看。
// 只做薄封装，业务语义全部在 fusion/store 层。

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"optix/internal/fusion"
	"optix/internal/logger"
	"optix/internal/store/auditlog"
	"optix/internal/store/decisionlog"
	"optix/internal/tuning"
)

// ServerConfig 描述管理面服务依赖。Audit 与 Profiles 可缺省。
type ServerConfig struct {
	Addr      string
	Engine    *fusion.Engine
	Decisions *decisionlog.Store
	Audit     *auditlog.Store
	Profiles  *tuning.Registry
}

// Server 管理面 HTTP 服务。
type Server struct {
	addr   string
	router *gin.Engine
}

// NewServer 构建管理面服务。
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("admin http server requires fusion engine")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9981"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handler{
		engine:    cfg.Engine,
		decisions: cfg.Decisions,
		audit:     cfg.Audit,
		profiles:  cfg.Profiles,
	}
	h.register(router.Group("/api"))

	return &Server{addr: cfg.Addr, router: router}, nil
}

// Addr 返回监听地址。
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler 暴露路由，测试用。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 启动服务，直到 ctx 取消或出错。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// requestLogger 记录接口的人工操作，便于追踪调用。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}
