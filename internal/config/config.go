package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "IMAGESVC"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Transform TransformConfig `mapstructure:"transform"`
	Image     ImageConfig     `mapstructure:"image"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file" validate:"required"`
	Console bool   `mapstructure:"console"`
}

type TransformConfig struct {
	Default   string   `mapstructure:"default" validate:"required"`
	Enabled   []string `mapstructure:"enabled" validate:"required,min=1,dive,required"`
	MaxWidth  int      `mapstructure:"max_width" validate:"gt=0"`
	MaxHeight int      `mapstructure:"max_height" validate:"gt=0"`
	BlurSigma float64  `mapstructure:"blur_sigma" validate:"gte=0"`
}

type ImageConfig struct {
	OutputFormat string `mapstructure:"output_format" validate:"oneof=png jpeg source"`
	JPEGQuality  int    `mapstructure:"jpeg_quality" validate:"min=1,max=100"`
	MaxPixels    int    `mapstructure:"max_pixels" validate:"gte=0"`
}

// Addr returns the listen address of the HTTP server.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 16<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "/tmp/logs/app.log")
	v.SetDefault("log.console", true)

	v.SetDefault("transform.default", "grayscale")
	v.SetDefault("transform.enabled",
		[]string{"grayscale", "rotate", "resize", "flip_horizontal", "flip_vertical", "blur"})
	v.SetDefault("transform.max_width", 8192)
	v.SetDefault("transform.max_height", 8192)
	v.SetDefault("transform.blur_sigma", 2.0)

	v.SetDefault("image.output_format", "png")
	v.SetDefault("image.jpeg_quality", 90)
	v.SetDefault("image.max_pixels", 50_000_000)
}

// Load reads the configuration. An explicit path must exist; without one, config.toml in the working directory
// is optional. Variables from .env and the environment, prefixed with IMAGESVC_, override file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	normalized := make([]string, 0, len(c.Transform.Enabled))
	for _, name := range c.Transform.Enabled {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(name)))
	}

	if !slices.Contains(normalized, strings.ToLower(strings.TrimSpace(c.Transform.Default))) {
		return fmt.Errorf("invalid config: default operation %q is not enabled", c.Transform.Default)
	}

	return nil
}
