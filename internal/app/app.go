package app

// 中文说明：
// 应用编排：持有装配好的依赖，Run 启动 HTTP 服务直到 ctx 取消，
// 退出时按依赖反序收尾。

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"optix/internal/chain"
	oxcfg "optix/internal/config"
	"optix/internal/fusion"
	"optix/internal/logger"
	"optix/internal/store/auditlog"
	"optix/internal/store/decisionlog"
	adminhttp "optix/internal/transport/http"
	"optix/internal/tuning"
)

// App 应用实例。
type App struct {
	cfg       *oxcfg.Config
	engine    *fusion.Engine
	analyzer  *chain.Analyzer
	decisions *decisionlog.Store
	audit     *auditlog.Store
	server    *adminhttp.Server
	registry  *tuning.Registry
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *oxcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(cfg)
}

// Engine 暴露融合引擎，供外部采集层驱动决策。
func (a *App) Engine() *fusion.Engine { return a.engine }

// Analyzer 暴露链分析器。
func (a *App) Analyzer() *chain.Analyzer { return a.analyzer }

// Decisions 暴露决策日志存储。
func (a *App) Decisions() *decisionlog.Store { return a.decisions }

// Run 启动服务，阻塞到 ctx 取消或出错。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	logger.Infof("optix 启动: env=%s http=%s decisions=%s",
		a.cfg.App.Env, a.server.Addr(), a.cfg.Store.DecisionLogPath)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("admin http server error: %w", err)
		}
		return nil
	})

	err := group.Wait()
	a.Close()
	return err
}

// Close 释放存储连接。
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.decisions != nil {
		if err := a.decisions.Close(); err != nil {
			logger.Warnf("关闭决策日志失败: %v", err)
		}
	}
	if a.audit != nil {
		if err := a.audit.Close(); err != nil {
			logger.Warnf("关闭覆盖审计失败: %v", err)
		}
	}
}
