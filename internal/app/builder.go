package app

import (
	"context"
	"os"
	"time"

	"planscope/internal/browser"
	"planscope/internal/config"
	"planscope/internal/logger"
	"planscope/internal/plans"
	"planscope/internal/profile"
	planshttp "planscope/internal/transport/http/plans"
)

// AppBuilder 按依赖顺序组装 App。
type AppBuilder struct {
	cfg *config.Config
}

// NewAppBuilder 构造 builder。
func NewAppBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// Build 依次构建 profile 注册表、浏览器会话、扫描服务与 HTTP
// 服务。浏览器启动失败会使整个应用启动失败。
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	cfg := b.cfg

	profiles := buildProfileRegistry(cfg.Scan.ProfilesPath)

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:  cfg.Browser.Headless,
		NoSandbox: cfg.Browser.NoSandbox,
	})
	if err != nil {
		return nil, err
	}

	service, err := plans.NewService(plans.Config{
		DocumentPath: cfg.Scan.DocumentPath,
		Profile:      cfg.Scan.Profile,
		NavTimeout:   time.Duration(cfg.Scan.NavTimeoutSeconds) * time.Second,
		CacheTTL:     time.Duration(cfg.Scan.CacheTTLSeconds) * time.Second,
	}, session, profiles)
	if err != nil {
		session.Close()
		return nil, err
	}

	httpSrv, err := planshttp.NewServer(planshttp.ServerConfig{
		Addr:  cfg.App.HTTPAddr,
		Plans: service,
	})
	if err != nil {
		service.Close()
		session.Close()
		return nil, err
	}

	return &App{cfg: cfg, session: session, service: service, httpSrv: httpSrv}, nil
}

// buildProfileRegistry 加载 profile 文件；路径为空或文件缺失时
// 退回内置 profile，不影响启动。
func buildProfileRegistry(path string) *profile.Registry {
	if path == "" {
		return profile.NewStatic()
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warnf("profiles file unavailable (%s), using built-in profile: %v", path, err)
		return profile.NewStatic()
	}
	registry, err := profile.NewRegistry(path)
	if err != nil {
		logger.Warnf("profiles load failed (%s), using built-in profile: %v", path, err)
		return profile.NewStatic()
	}
	return registry
}
