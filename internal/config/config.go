// 包 config 负责加载与校验应用配置（settings.yaml），
// 对外提供结构体 Config 及默认值/合法性校验。
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultAPIBase     = "https://leetcode-api-faisalshohag.vercel.app"
	DefaultProfileBase = "https://leetcode.com/u/"
	DefaultTimeout     = 20 * time.Second
	DefaultExportPath  = "data.json"
	DefaultSelector    = "#leetcode"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	Username    string        `yaml:"USERNAME" validate:"required,max=64"`
	APIBase     string        `yaml:"API_BASE" validate:"required,http_url"`
	ProfileBase string        `yaml:"PROFILE_BASE" validate:"required,http_url"`
	Timeout     time.Duration `yaml:"TIMEOUT" validate:"gte=0"`
	Proxy       Proxy         `yaml:"PROXY"`
	Export      Export        `yaml:"EXPORT"`
	Page        Page          `yaml:"PAGE"`
	MetricsFile string        `yaml:"METRICS_FILE"`
	LogLevel    string        `yaml:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn warning error none silent off"`
	LogFormat   string        `yaml:"LOG_FORMAT" validate:"oneof=text json pretty"`
	LogLocale   string        `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor    string        `yaml:"LOG_COLOR" validate:"oneof=auto always never"`
}

type Proxy struct {
	HTTP  string `yaml:"http" validate:"omitempty,url"`
	HTTPS string `yaml:"https" validate:"omitempty,url"`
}

// Export：data.json 路径与预压缩格式（gzip/zstd）
type Export struct {
	Path     string   `yaml:"path" validate:"required"`
	Compress []string `yaml:"compress" validate:"dive,oneof=gzip zstd"`
}

// Page：可选，存在时把渲染好的区块注入该页面
type Page struct {
	Path     string `yaml:"path"`
	Selector string `yaml:"selector"`
}

// Option 在校验前覆盖配置（命令行参数优先于文件）。
type Option func(*Config)

// WithUsername 非空时覆盖 USERNAME。
func WithUsername(u string) Option {
	return func(c *Config) {
		if u = strings.TrimSpace(u); u != "" {
			c.Username = u
		}
	}
}

// WithExportPath 非空时覆盖 EXPORT.path。
func WithExportPath(p string) Option {
	return func(c *Config) {
		if p != "" {
			c.Export.Path = p
		}
	}
}

// Load 从文件读取 YAML 并反序列化为 Config，应用覆盖项后进行校验与默认值填充。
// path 为空时仅使用默认值与覆盖项。
func Load(path string, opts ...Option) (*Config, error) {
	var c Config
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config %s: %w", path, err)
		}
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}
	for _, o := range opts {
		o(&c)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate 先填充默认值，再按结构体标签校验。
func (c *Config) Validate() error {
	c.Username = strings.TrimSpace(c.Username)
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	if c.ProfileBase == "" {
		c.ProfileBase = DefaultProfileBase
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Export.Path == "" {
		c.Export.Path = DefaultExportPath
	}
	if c.Page.Path != "" && c.Page.Selector == "" {
		c.Page.Selector = DefaultSelector
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return validate.Struct(c)
}

// ProfileURL 返回用户的 LeetCode 主页地址。
func (c *Config) ProfileURL() string {
	return strings.TrimRight(c.ProfileBase, "/") + "/" + c.Username + "/"
}
