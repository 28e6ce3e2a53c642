package config

import (
	"log"
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
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// VSM 业务配置：组织邮箱域、上传目录、报名幂等窗口、后台初始管理员
type VSM struct {
	EmailDomain       string `mapstructure:"email_domain"`
	UploadDir         string `mapstructure:"upload_dir"`
	IdempotencyTTLMin int    `mapstructure:"idempotency_ttl_min"`
	HomepageCacheSec  int    `mapstructure:"homepage_cache_sec"`
	SeedAdminEmail    string `mapstructure:"seed_admin_email"`
	SeedAdminPassword string `mapstructure:"seed_admin_password"`
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	DB    DB
	Redis Redis `mapstructure:"redis"`
	VSM   VSM   `mapstructure:"vsm"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.VSM.EmailDomain == "" {
		c.VSM.EmailDomain = "@vsm.org.vn"
	}
	if !strings.HasPrefix(c.VSM.EmailDomain, "@") {
		c.VSM.EmailDomain = "@" + c.VSM.EmailDomain
	}
	if c.VSM.UploadDir == "" {
		c.VSM.UploadDir = "./uploads"
	}
	if c.VSM.IdempotencyTTLMin <= 0 {
		c.VSM.IdempotencyTTLMin = 60
	}
	if c.VSM.HomepageCacheSec <= 0 {
		c.VSM.HomepageCacheSec = 60
	}
}
