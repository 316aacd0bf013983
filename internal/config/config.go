package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"huntier/internal/digest"
	"huntier/internal/notifier"
	"huntier/internal/storage"

	"gopkg.in/yaml.v3"
)

// DefaultPath 为未指定配置文件时读取的路径。
const DefaultPath = "config.yaml"

// AppConfig 应用配置。
type AppConfig struct {
	Server   ServerConfig         `yaml:"server"`
	Database storage.Config       `yaml:"database"`
	Log      LogConfig            `yaml:"log"`
	Catalog  CatalogConfig        `yaml:"catalog"`
	Meta     MetaConfig           `yaml:"meta"`
	Email    notifier.EmailConfig `yaml:"email"`
	Digest   digest.Config        `yaml:"digest"`
}

type ServerConfig struct {
	Addr         string `yaml:"addr"`
	AdminToken   string `yaml:"admin_token"`
	AllowOrigin  string `yaml:"allow_origin"`
	StaticDir    string `yaml:"static_dir"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

type LogConfig struct {
	JSON  bool `yaml:"json"`
	Debug bool `yaml:"debug"`
}

type CatalogConfig struct {
	// Path 为空时使用内置目录。
	Path string `yaml:"path"`
}

// MetaConfig 为表单下拉选项，启动时加载一次。
type MetaConfig struct {
	ExperienceBuckets []string `yaml:"experience_buckets" json:"experienceBuckets"`
	EducationLevels   []string `yaml:"education_levels" json:"educationLevels"`
	Languages         []string `yaml:"languages" json:"languages"`
}

// Load 读取配置文件，替换 ${VAR} 环境变量并填充默认值。
// 文件不存在时返回默认配置。
func Load(path string) (AppConfig, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := AppConfig{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 内容。
func Parse(data []byte) (AppConfig, error) {
	content := expandEnvVars(string(data))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "web"
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "data/huntier.db"
	}
	if len(c.Meta.ExperienceBuckets) == 0 {
		c.Meta.ExperienceBuckets = []string{"0-1", "1-2", "2-3", "3-5", "5-10", "10+"}
	}
	if len(c.Meta.EducationLevels) == 0 {
		c.Meta.EducationLevels = []string{"high_school", "associate", "bachelor", "master", "phd"}
	}
	if len(c.Meta.Languages) == 0 {
		c.Meta.Languages = []string{"English", "Mandarin", "Cantonese"}
	}
}

func (c AppConfig) validate() error {
	switch c.Database.Driver {
	case "sqlite":
	case "postgres", "postgresql":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	return nil
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars 替换 ${VAR_NAME}，未设置的变量替换为空串。
func expandEnvVars(content string) string {
	return envPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
