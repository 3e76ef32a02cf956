// Package plans 串联 渲染→抽取→打分→聚合 的完整扫描流程。
package plans

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"planscope/internal/browser"
	"planscope/internal/decision"
	"planscope/internal/extract"
	"planscope/internal/logger"
	"planscope/internal/profile"
	"planscope/internal/rank"
)

// Leaderboard 是排行榜响应载体，Best 为榜首（可能为空）。
type Leaderboard struct {
	Items []rank.ScoredPlan `json:"items"`
	Best  *rank.ScoredPlan  `json:"best"`
}

// Renderer 由浏览器会话实现，测试中可替换。
type Renderer interface {
	Snapshot(ctx context.Context, req browser.SnapshotRequest) (*goquery.Document, error)
}

// Config 描述扫描服务的运行参数。
type Config struct {
	DocumentPath string
	Profile      string
	NavTimeout   time.Duration
	CacheTTL     time.Duration
}

// Service 持有渲染会话与 profile 注册表；扫描结果短暂缓存，
// 源文档变更时立即失效，并发请求合并为一次渲染。
type Service struct {
	cfg      Config
	renderer Renderer
	profiles *profile.Registry
	group    singleflight.Group
	cache    *resultCache
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewService 构建扫描服务并启动源文档监听。监听失败只降级为
// 纯 TTL 缓存，不阻止启动。
func NewService(cfg Config, renderer Renderer, profiles *profile.Registry) (*Service, error) {
	if renderer == nil {
		return nil, fmt.Errorf("plans service requires a renderer")
	}
	if cfg.DocumentPath == "" {
		return nil, fmt.Errorf("plans service requires a document path")
	}
	s := &Service{
		cfg:      cfg,
		renderer: renderer,
		profiles: profiles,
		cache:    newResultCache(cfg.CacheTTL),
		done:     make(chan struct{}),
	}
	if cfg.CacheTTL > 0 {
		if err := s.watchDocument(); err != nil {
			logger.Warnf("document watch unavailable (%s): %v", cfg.DocumentPath, err)
		}
	}
	return s, nil
}

// Close 停止文件监听。
func (s *Service) Close() {
	if s == nil {
		return
	}
	close(s.done)
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
}

// Scan 返回排行榜。命中缓存时不触发渲染。
func (s *Service) Scan(ctx context.Context) (Leaderboard, error) {
	if lb, ok := s.cache.get(time.Now()); ok {
		return lb, nil
	}
	v, err, _ := s.group.Do("scan", func() (any, error) {
		return s.scanOnce(ctx)
	})
	if err != nil {
		return Leaderboard{}, err
	}
	return v.(Leaderboard), nil
}

// Result 基于最新排行榜给出大小判定。
func (s *Service) Result(ctx context.Context) (decision.Outcome, error) {
	lb, err := s.Scan(ctx)
	if err != nil {
		return decision.Outcome{}, err
	}
	return decision.Decide(lb.Items), nil
}

func (s *Service) scanOnce(ctx context.Context) (Leaderboard, error) {
	traceID := uuid.NewString()[:8]
	prof := s.profiles.Lookup(s.cfg.Profile)
	target, err := browser.FileURL(s.cfg.DocumentPath, prof.Fragment)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("resolve document path failed: %w", err)
	}
	start := time.Now()
	doc, err := s.renderer.Snapshot(ctx, browser.SnapshotRequest{
		URL:     target,
		Markers: prof.Markers,
		Clicks:  prof.Clicks,
		Timeout: s.cfg.NavTimeout,
		Settle:  time.Duration(prof.SettleMillis) * time.Millisecond,
	})
	if err != nil {
		return Leaderboard{}, fmt.Errorf("acquire rendered document failed: %w", err)
	}
	candidates := extract.Records(doc)
	items := rank.Top(candidates)
	lb := Leaderboard{Items: items}
	if len(items) > 0 {
		best := items[0]
		lb.Best = &best
	}
	logger.Infof("[%s] scan done: profile=%s containers=%d ranked=%d dur=%s",
		traceID, prof.Name, len(candidates), len(items), time.Since(start).Round(time.Millisecond))
	s.cache.set(lb, time.Now())
	return lb, nil
}

func (s *Service) watchDocument() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	doc := filepath.Clean(s.cfg.DocumentPath)
	// 监听目录而非文件本体，覆盖编辑器的替换式写入。
	if err := w.Add(filepath.Dir(doc)); err != nil {
		_ = w.Close()
		return err
	}
	s.watcher = w
	go func() {
		for {
			select {
			case <-s.done:
				return
			case evt, open := <-w.Events:
				if !open {
					return
				}
				if filepath.Clean(evt.Name) != doc {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					logger.Debugf("source document changed (%s), cache invalidated", evt.Op)
					s.cache.invalidate()
				}
			case err, open := <-w.Errors:
				if !open {
					return
				}
				logger.Warnf("document watch error: %v", err)
			}
		}
	}()
	return nil
}
