package config

import (
	"fmt"
	"strings"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Scan.validate(); err != nil {
		return err
	}
	return nil
}

func (a *AppConfig) validate() error {
	if strings.TrimSpace(a.HTTPAddr) == "" {
		return fmt.Errorf("app.http_addr cannot be empty")
	}
	return nil
}

func (s *ScanConfig) validate() error {
	if strings.TrimSpace(s.DocumentPath) == "" {
		return fmt.Errorf("scan.document_path cannot be empty")
	}
	if s.NavTimeoutSeconds < 0 {
		return fmt.Errorf("scan.nav_timeout_seconds must be >= 0")
	}
	if s.CacheTTLSeconds < 0 {
		return fmt.Errorf("scan.cache_ttl_seconds must be >= 0")
	}
	return nil
}
