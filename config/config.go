package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger"`
	DB         Database   `mapstructure:"database"`
	API        API        `mapstructure:"api"`
	Dispatcher Dispatcher `mapstructure:"dispatcher"`
	Gemini     Gemini     `mapstructure:"gemini"`
	Storage    Storage    `mapstructure:"storage"`
	Cache      Cache      `mapstructure:"cache"`
	Reaper     Reaper     `mapstructure:"reaper"`
	Upload     Upload     `mapstructure:"upload"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Dispatcher struct {
	Workers    int           `mapstructure:"workers"`
	QueueSize  int           `mapstructure:"queue_size"`
	RunTimeout time.Duration `mapstructure:"run_timeout"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	BaseModel           string        `mapstructure:"base_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxInputChars       int           `mapstructure:"max_input_chars"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Storage struct {
	Driver   string `mapstructure:"driver"` // "local" or "s3"
	LocalDir string `mapstructure:"local_dir"`
	S3       S3     `mapstructure:"s3"`
}

type S3 struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	AnalysisTTL       time.Duration `mapstructure:"analysis_ttl"`
}

type Reaper struct {
	Enabled    bool          `mapstructure:"enabled"`
	Schedule   string        `mapstructure:"schedule"`
	StuckAfter time.Duration `mapstructure:"stuck_after"`
}

type Upload struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

func Load() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	// A config file is optional, env vars alone are enough.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every config key. AutomaticEnv only overrides keys
// viper already knows about, so secrets that arrive purely through env
// (database credentials, the Gemini API key, S3 credentials) need an entry
// here even when their default is empty.
func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "dealpipe")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.time_zone", "")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 50)
	viper.SetDefault("database.conn_max_lifetime", "1h")
	viper.SetDefault("database.log_level", "Warn")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("dispatcher.workers", 4)
	viper.SetDefault("dispatcher.queue_size", 128)
	viper.SetDefault("dispatcher.run_timeout", 5*time.Minute)

	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	viper.SetDefault("gemini.base_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.max_input_chars", 8000)
	viper.SetDefault("gemini.max_request_per_minute", 15)

	viper.SetDefault("storage.driver", "local")
	viper.SetDefault("storage.local_dir", "pitch_decks")
	viper.SetDefault("storage.s3.endpoint", "")
	viper.SetDefault("storage.s3.region", "")
	viper.SetDefault("storage.s3.bucket", "")
	viper.SetDefault("storage.s3.access_key", "")
	viper.SetDefault("storage.s3.secret_key", "")

	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("cache.analysis_ttl", time.Hour)

	viper.SetDefault("reaper.enabled", true)
	viper.SetDefault("reaper.schedule", "*/5 * * * *")
	viper.SetDefault("reaper.stuck_after", 15*time.Minute)

	viper.SetDefault("upload.max_size_bytes", 25<<20)
}
