package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Log          LogConfig          `mapstructure:"log"`
	Push         PushConfig         `mapstructure:"push"`
	Mail         MailConfig         `mapstructure:"mail"`
	Board        BoardConfig        `mapstructure:"board"`
	Course       CourseConfig       `mapstructure:"course"`
	Verification VerificationConfig `mapstructure:"verification"`
	RateLimit    RateLimitConfig    `mapstructure:"ratelimit"`
	Sentry       SentryConfig       `mapstructure:"sentry"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres | sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expire time.Duration `mapstructure:"expire"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

// PushConfig Expo 推送
type PushConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Title    string        `mapstructure:"title"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MailConfig SMTP (implicit TLS)
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type BoardConfig struct {
	// ValidateOnPost 创建帖子时校验板块归属
	ValidateOnPost bool          `mapstructure:"validate_on_post"`
	ListLimit      int           `mapstructure:"list_limit"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

type CourseConfig struct {
	CurrentTermCode   string `mapstructure:"current_term_code"`
	DefaultMailFooter string `mapstructure:"default_mail_footer"`
	SearchLimit       int    `mapstructure:"search_limit"`
}

type VerificationConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
	// MaxAttempts 单个验证码允许输错的次数
	MaxAttempts int `mapstructure:"max_attempts"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// envBindings 兼容旧部署使用的环境变量名
var envBindings = map[string]string{
	"mail.username":            "MAILS_EMAIL",
	"mail.password":            "MAILS_PWD",
	"mail.from":                "NODEMAIL_EMAIL",
	"course.current_term_code": "CURRENT_TERM_CODE",
	"database.dsn":             "DATABASE_URL",
	"redis.addr":               "REDIS_ADDR",
	"jwt.secret":               "JWT_SECRET",
	"sentry.dsn":               "SENTRY_DSN",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "college-table")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=college_table port=5432 sslmode=disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("jwt.expire", 30*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("push.endpoint", "https://exp.host/--/api/v2/push/send")
	v.SetDefault("push.title", "College Table")
	v.SetDefault("push.timeout", 10*time.Second)

	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 465)

	v.SetDefault("board.validate_on_post", false)
	v.SetDefault("board.list_limit", 30)
	v.SetDefault("board.cache_ttl", time.Minute)

	v.SetDefault("course.current_term_code", "T_1232")
	v.SetDefault("course.default_mail_footer", "wisc.edu")
	v.SetDefault("course.search_limit", 30)

	v.SetDefault("verification.ttl", 3*time.Minute)
	v.SetDefault("verification.max_attempts", 5)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 20)
	v.SetDefault("ratelimit.burst", 40)

	v.SetDefault("tracing.endpoint", "localhost:4318")
}

// Load 读取 .env、config/config.yaml 与环境变量（APP_ 前缀）
func Load() (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验必填项
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (JWT_SECRET)")
	}
	if c.Board.ListLimit <= 0 || c.Course.SearchLimit <= 0 {
		return errors.New("board.list_limit and course.search_limit must be positive")
	}
	return nil
}

// Addr 监听地址
func (c *ServerConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }
