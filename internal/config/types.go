package config

// Config 是 planscope 的主配置载体。
type Config struct {
	App     AppConfig     `toml:"app"`
	Scan    ScanConfig    `toml:"scan"`
	Browser BrowserConfig `toml:"browser"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// ScanConfig 描述被扫描的文档与扫描行为。
type ScanConfig struct {
	DocumentPath      string `toml:"document_path"`
	Profile           string `toml:"profile"`
	ProfilesPath      string `toml:"profiles_path"`
	NavTimeoutSeconds int    `toml:"nav_timeout_seconds"`
	CacheTTLSeconds   int    `toml:"cache_ttl_seconds"`
}

// BrowserConfig 控制 headless 浏览器进程参数。
type BrowserConfig struct {
	Headless  bool `toml:"headless"`
	NoSandbox bool `toml:"no_sandbox"`
}

// keySet 用于追踪配置文件中显式设置的字段路径。
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	_, ok := k[path]
	return ok
}

// fieldDefault 描述单个字段的默认值设置规则。
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
