// Package profile 管理扫描 profile：目标页面的路由片段、就绪
// 标记与点击导航序列。支持热更新。
package profile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"planscope/internal/logger"
)

// ScanProfile 描述单个目标页面的导航参数。
type ScanProfile struct {
	Name         string   `yaml:"-"`
	Fragment     string   `yaml:"fragment"`
	Markers      []string `yaml:"markers"`
	Clicks       []string `yaml:"clicks"`
	SettleMillis int      `yaml:"settle_millis"`
	Default      bool     `yaml:"default"`
}

// FileConfig 映射 profiles 配置文件结构。
type FileConfig struct {
	Profiles map[string]ScanProfile `yaml:"profiles"`
}

// Snapshot 对外暴露的只读快照。
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Profiles map[string]ScanProfile
}

// Registry 从 YAML 文件加载 profile 并监听热更新。
type Registry struct {
	path string
	v    *viper.Viper

	mu       sync.RWMutex
	snapshot Snapshot
}

// BuiltIn 返回内置的 wingo 30 秒盘 profile，配置文件缺失或
// 查询未命中时兜底。
func BuiltIn() ScanProfile {
	return ScanProfile{
		Name:         "wingo_30s",
		Fragment:     "/wingo_30s",
		Markers:      []string{"Pred. Results", "Plans", "Draws"},
		Clicks:       []string{"Pred. Results", "Plans"},
		SettleMillis: 800,
	}
}

// NewStatic 构建只含内置 profile 的注册表，不做文件监听。
func NewStatic() *Registry {
	r := &Registry{}
	r.snapshot = Snapshot{
		Version:  1,
		LoadedAt: time.Now(),
		Profiles: map[string]ScanProfile{"wingo_30s": BuiltIn()},
	}
	return r
}

// NewRegistry 读取 profile 文件并开始监听 FS 事件。
func NewRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("profile registry requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read profile config failed: %w", err)
	}
	r := &Registry{path: path, v: v}
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("profile reload failed (%s): %v", evt.Name, err)
		}
	})
	v.WatchConfig()
	return r, nil
}

// Snapshot 返回当前配置快照（深拷贝）。
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSnapshot(r.snapshot)
}

// Lookup 按名称取 profile；名称为空或未命中时退回标记为
// default 的条目，最后退回内置 profile。
func (r *Registry) Lookup(name string) ScanProfile {
	if r == nil {
		return BuiltIn()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	name = strings.TrimSpace(name)
	if name != "" {
		if p, ok := r.snapshot.Profiles[name]; ok {
			return p
		}
	}
	for _, p := range r.snapshot.Profiles {
		if p.Default {
			return p
		}
	}
	return BuiltIn()
}

func (r *Registry) reload() error {
	fileCfg, err := readProfileFile(r.path)
	if err != nil {
		return err
	}
	normalized := make(map[string]ScanProfile, len(fileCfg.Profiles))
	for name, def := range fileCfg.Profiles {
		normalized[name] = normalizeProfile(name, def)
	}
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Profiles: normalized,
	}
	r.mu.Unlock()
	logger.Infof("profile registry loaded %d profiles from %s", len(normalized), filepath.Base(r.path))
	return nil
}

func readProfileFile(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read profile config failed: %w", err)
	}
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse profile config failed: %w", err)
	}
	return cfg, nil
}

func normalizeProfile(name string, def ScanProfile) ScanProfile {
	def.Name = name
	def.Fragment = strings.TrimSpace(def.Fragment)
	def.Markers = trimList(def.Markers)
	def.Clicks = trimList(def.Clicks)
	if def.SettleMillis < 0 {
		def.SettleMillis = 0
	}
	return def
}

func trimList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cloneSnapshot(s Snapshot) Snapshot {
	out := Snapshot{Version: s.Version, LoadedAt: s.LoadedAt}
	if len(s.Profiles) > 0 {
		out.Profiles = make(map[string]ScanProfile, len(s.Profiles))
		for k, v := range s.Profiles {
			v.Markers = append([]string(nil), v.Markers...)
			v.Clicks = append([]string(nil), v.Clicks...)
			out.Profiles[k] = v
		}
	}
	return out
}
