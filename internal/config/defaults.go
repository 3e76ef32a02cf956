package config

import "strings"

// 默认值常量
const (
	defaultAppEnv       = "dev"
	defaultAppLogLevel  = "info"
	defaultAppHTTPAddr  = ":5000"
	defaultDocumentPath = "web/hgzy.html"
	defaultScanProfile  = "wingo_30s"
	defaultProfilesPath = "configs/profiles.yaml"
	defaultNavTimeout   = 12
	defaultCacheTTL     = 3
)

// applyDefaults 为所有子配置应用默认值。
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Scan.applyDefaults(keys)
	c.Browser.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (s *ScanConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("scan.document_path", &s.DocumentPath, defaultDocumentPath),
		stringFieldDefault("scan.profile", &s.Profile, defaultScanProfile),
		stringFieldDefault("scan.profiles_path", &s.ProfilesPath, defaultProfilesPath),
		fieldDefault{
			key:   "scan.nav_timeout_seconds",
			need:  func() bool { return s.NavTimeoutSeconds <= 0 },
			apply: func() { s.NavTimeoutSeconds = defaultNavTimeout },
		},
		fieldDefault{
			key:   "scan.cache_ttl_seconds",
			need:  func() bool { return s.CacheTTLSeconds <= 0 },
			apply: func() { s.CacheTTLSeconds = defaultCacheTTL },
		},
	)
}

func (b *BrowserConfig) applyDefaults(keys keySet) {
	if b == nil {
		return
	}
	applyFieldDefaults(keys,
		boolFieldDefault("browser.headless", &b.Headless, true),
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
