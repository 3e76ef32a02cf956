// Package browser 管理常驻 headless Chrome 会话并产出渲染后
// 的文档快照。
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"planscope/internal/logger"
)

const (
	defaultNavTimeout = 12 * time.Second
	readyWait         = 15 * time.Second
	readyPollEvery    = 200 * time.Millisecond
)

// Options 控制浏览器进程参数。
type Options struct {
	Headless  bool
	NoSandbox bool
}

// Session 持有常驻浏览器实例，跨请求复用以避免冷启动。
// 同一时刻只允许一次渲染，由互斥锁串行化。
type Session struct {
	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSession 启动浏览器进程并做一次空转预热；启动失败即返回
// 错误，由调用方决定是否终止。
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch headless browser failed: %w", err)
	}
	return &Session{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close 结束浏览器进程。
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.browserCancel != nil {
		s.browserCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}

// SnapshotRequest 描述一次页面快照：导航目标、就绪标记文本、
// 模拟点击序列与等待参数。
type SnapshotRequest struct {
	URL     string
	Markers []string
	Clicks  []string
	Timeout time.Duration
	Settle  time.Duration
}

// Snapshot 在常驻浏览器中新开 tab 加载页面，等待任一就绪标记
// 出现并按序点击导航项，返回渲染后的 DOM 快照。页面未就绪不
// 视为错误，仅记录告警并返回当前内容。
func (s *Session) Snapshot(ctx context.Context, req SnapshotRequest) (*goquery.Document, error) {
	if s == nil || s.browserCtx == nil {
		return nil, fmt.Errorf("browser session not initialized")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultNavTimeout
	}
	// tab 派生自常驻浏览器上下文；调用方 ctx 只贡献取消信号。
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()
	runCtx, cancelRun := context.WithTimeout(tabCtx, timeout+readyWait)
	defer cancelRun()
	if ctx != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				cancelRun()
			case <-done:
			}
		}()
	}

	tasks := chromedp.Tasks{
		chromedp.Navigate(req.URL),
		waitAnyText(req.Markers),
	}
	for _, label := range req.Clicks {
		tasks = append(tasks, clickByText(label))
	}
	if req.Settle > 0 {
		tasks = append(tasks, chromedp.Sleep(req.Settle))
	}
	var rendered string
	tasks = append(tasks, chromedp.OuterHTML("html", &rendered, chromedp.ByQuery))
	if err := chromedp.Run(runCtx, tasks...); err != nil {
		return nil, fmt.Errorf("render %s failed: %w", req.URL, err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(rendered))
}

// waitAnyText 轮询页面文本，任一标记出现即认为页面就绪。
// 轮询超时不报错，由上层按空结果处理。
func waitAnyText(markers []string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if len(markers) == 0 {
			return nil
		}
		expr := markerProbe(markers)
		waitCtx, cancel := context.WithTimeout(ctx, readyWait)
		defer cancel()
		ticker := time.NewTicker(readyPollEvery)
		defer ticker.Stop()
		for {
			var found bool
			if err := chromedp.Evaluate(expr, &found).Do(waitCtx); err == nil && found {
				return nil
			}
			select {
			case <-waitCtx.Done():
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warnf("readiness markers %v not seen within %s, proceeding", markers, readyWait)
				return nil
			case <-ticker.C:
			}
		}
	})
}

func markerProbe(markers []string) string {
	quoted, _ := json.Marshal(markers)
	return fmt.Sprintf(`(() => {
  const text = document.body ? document.body.innerText : '';
  return %s.some(m => text.includes(m));
})()`, string(quoted))
}

// clickByText 点击首个文本包含 label 的叶子元素；找不到目标或
// 点击失败时静默跳过，导航是尽力而为的。
func clickByText(label string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		quoted, _ := json.Marshal(label)
		expr := fmt.Sprintf(`(() => {
  const needle = %s;
  const nodes = Array.from(document.querySelectorAll('*'));
  const el = nodes.find(n => n.children.length === 0 && (n.textContent || '').includes(needle));
  if (!el) return false;
  el.click();
  return true;
})()`, string(quoted))
		var clicked bool
		if err := chromedp.Evaluate(expr, &clicked).Do(ctx); err != nil {
			logger.Debugf("click %q evaluate failed: %v", label, err)
			return nil
		}
		if !clicked {
			logger.Debugf("click target %q not found", label)
		}
		return nil
	})
}

// FileURL 将本地文档路径转为带路由片段的 file:// 地址。
func FileURL(path, fragment string) (string, error) {
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return "", err
	}
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	out := u.String()
	if fragment = strings.TrimSpace(fragment); fragment != "" {
		out += "#" + strings.TrimPrefix(fragment, "#")
	}
	return out, nil
}
