package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the name of the config file looked up in the config directory
const FileName = "yardmap.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. YARDMAP_INFLUX_TOKEN
const EnvPrefix = "YARDMAP"

// LogConfig holds log level and file rotation settings
type LogConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// YardConfig geo-references the map. A zero width or height means GPS
// placement is disabled.
type YardConfig struct {
	OriginLon    float64 `json:"originLon" mapstructure:"originLon"`
	OriginLat    float64 `json:"originLat" mapstructure:"originLat"`
	WidthMeters  float64 `json:"widthMeters" mapstructure:"widthMeters"`
	HeightMeters float64 `json:"heightMeters" mapstructure:"heightMeters"`
}

// GeoReferenced reports whether the yard has a usable GPS extent
func (c YardConfig) GeoReferenced() bool {
	return c.WidthMeters > 0 && c.HeightMeters > 0
}

// ExportConfig holds JSON export settings
type ExportConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// InfluxConfig holds occupancy telemetry settings
type InfluxConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Protocol string
	Token    string
	Org      string
	Bucket   string
	Interval time.Duration
}

// URL returns the server address built from protocol, host and port
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./yardlogs")
	viper.SetDefault("logMaxSizeMB", 100)
	viper.SetDefault("logMaxBackups", 10)
	viper.SetDefault("logMaxAgeDays", 30)
	viper.SetDefault("logCompress", true)

	viper.SetDefault("yard.originLon", 0.0)
	viper.SetDefault("yard.originLat", 0.0)
	viper.SetDefault("yard.widthMeters", 0.0)
	viper.SetDefault("yard.heightMeters", 0.0)

	viper.SetDefault("export.outputDir", "./exports")
	viper.SetDefault("export.compressOutput", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", 8086)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "yardmap")
	viper.SetDefault("influx.bucket", "yard_occupancy")
	viper.SetDefault("influx.interval", "1m")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "yardmap")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()
	bindEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads environment files into the process environment.
// Missing files are skipped; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("error loading env file %s: %w", p, err)
		}
	}
	return nil
}

// bindEnv lets YARDMAP_* variables override file values. Nested keys use
// underscores: influx.token is YARDMAP_INFLUX_TOKEN.
func bindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// GetLogConfig returns the log settings
func GetLogConfig() LogConfig {
	return LogConfig{
		Level:      viper.GetString("logLevel"),
		Dir:        viper.GetString("logsDir"),
		MaxSizeMB:  viper.GetInt("logMaxSizeMB"),
		MaxBackups: viper.GetInt("logMaxBackups"),
		MaxAgeDays: viper.GetInt("logMaxAgeDays"),
		Compress:   viper.GetBool("logCompress"),
	}
}

// GetYardConfig returns the geo-reference of the map
func GetYardConfig() YardConfig {
	return YardConfig{
		OriginLon:    viper.GetFloat64("yard.originLon"),
		OriginLat:    viper.GetFloat64("yard.originLat"),
		WidthMeters:  viper.GetFloat64("yard.widthMeters"),
		HeightMeters: viper.GetFloat64("yard.heightMeters"),
	}
}

// GetExportConfig returns the export settings
func GetExportConfig() ExportConfig {
	return ExportConfig{
		OutputDir:      viper.GetString("export.outputDir"),
		CompressOutput: viper.GetBool("export.compressOutput"),
	}
}

// GetInfluxConfig returns the occupancy telemetry settings
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetInt("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
		Interval: viper.GetDuration("influx.interval"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
