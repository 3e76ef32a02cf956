package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"planscope/internal/browser"
	"planscope/internal/config"
	"planscope/internal/logger"
	"planscope/internal/plans"
	planshttp "planscope/internal/transport/http/plans"
)

// App 负责应用级编排：启动浏览器会话、扫描服务与 HTTP 服务。
type App struct {
	cfg     *config.Config
	session *browser.Session
	service *plans.Service
	httpSrv *planshttp.Server
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.shutdown()

	logger.Infof("planscope listening on %s (document=%s profile=%s)",
		a.httpSrv.Addr(), a.cfg.Scan.DocumentPath, a.cfg.Scan.Profile)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.httpSrv.Start(ctx); err != nil {
			return fmt.Errorf("plans http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

func (a *App) shutdown() {
	if a.service != nil {
		a.service.Close()
	}
	if a.session != nil {
		a.session.Close()
	}
}
