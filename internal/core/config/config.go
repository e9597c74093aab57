package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name    string
	Env     string
	HostAPI string `mapstructure:"hostApi"` // 对外地址，用于拼接图片 URL
	HTTP    HTTP
	Admin   AdminHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttlSeconds"`
}

type AMQP struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Files struct {
	Dir         string
	MaxUploadMB int
}

type Seed struct {
	Enabled bool
}

type CORS struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	DB    DB
	Redis Redis `mapstructure:"redis"`
	AMQP  AMQP  `mapstructure:"amqp"`
	Files Files
	Seed  Seed
	CORS  CORS `mapstructure:"cors"`
}

func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

func defaults(v *viper.Viper) {
	v.SetDefault("app.name", "catalog-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.port", 3000)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.port", 3001)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "catalog-api")
	v.SetDefault("jwt.accessTokenTTLMin", 120)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("redis.ttlSeconds", 60)
	v.SetDefault("amqp.exchange", "catalog.events")
	v.SetDefault("files.dir", "./static/products")
	v.SetDefault("files.maxUploadMB", 5)
}

// Load 读取 yaml，并允许 APP_ 前缀的环境变量覆盖（APP_JWT_SECRET → jwt.secret）
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	defaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	if c.App.HostAPI == "" {
		c.App.HostAPI = fmt.Sprintf("http://127.0.0.1:%d/api/v1", c.App.HTTP.Port)
	}
	return &c, nil
}
