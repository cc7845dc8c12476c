package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "tmdbreport/internal/errors"
)

// Config represents the complete application configuration.
//
// Leaf fields use split_words instead of envconfig tags: a tagged field
// falls back to the bare tag name (PATH, PORT) when the prefixed variable
// is unset.
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes where the movie dataset comes from
type InputConfig struct {
	Path      string `yaml:"path" split_words:"true"`
	Delimiter string `yaml:"delimiter" split_words:"true" validate:"omitempty,len=1"`
	Sheet     string `yaml:"sheet" split_words:"true"`
}

// ReportConfig controls the HTML report and its charts
type ReportConfig struct {
	OutputPath    string  `yaml:"output_path" split_words:"true" validate:"required"`
	Title         string  `yaml:"title" split_words:"true" validate:"required"`
	TopN          int     `yaml:"top_n" split_words:"true" validate:"min=1,max=100"`
	LabelWidth    int     `yaml:"label_width" split_words:"true" validate:"min=4,max=200"`
	HistogramBins int     `yaml:"histogram_bins" split_words:"true" validate:"min=1,max=200"`
	ChartWidth    float64 `yaml:"chart_width" split_words:"true" validate:"gt=0,lte=40"`
	ChartHeight   float64 `yaml:"chart_height" split_words:"true" validate:"gt=0,lte=40"`
}

// ExportConfig controls tabular exports
type ExportConfig struct {
	Dir     string   `yaml:"dir" split_words:"true" validate:"required"`
	Formats []string `yaml:"formats" split_words:"true" validate:"min=1,dive,oneof=csv xlsx"`
	WithBOM bool     `yaml:"with_bom" split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" split_words:"true"`
	Port            int           `yaml:"port" split_words:"true" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" split_words:"true" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" split_words:"true" validate:"gt=0"`
	Burst   int     `yaml:"burst" split_words:"true" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" split_words:"true" validate:"oneof=json text"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// TelemetryConfig controls tracing and metrics
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" split_words:"true" validate:"required"`
	TraceExporter string  `yaml:"trace_exporter" split_words:"true" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" split_words:"true" validate:"gte=0,lte=1"`
	Metrics       bool    `yaml:"metrics" split_words:"true"`
}

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TMDB"

var configFileLocations = []string{
	"config.yaml",
	filepath.Join("configs", "config.yaml"),
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing order of precedence. A .env file in the
// working directory is read first; its values never override variables
// already set in the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to read .env file", err)
	}
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load without .env handling and with an explicit YAML file.
// An empty path skips the file layer.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Fields without a matching variable keep their current value, so
	// envconfig only layers explicit overrides on top of file and defaults.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func findConfigFile() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Telemetry.TraceExporter = strings.ToLower(strings.TrimSpace(c.Telemetry.TraceExporter))
	c.Input.Path = strings.TrimSpace(c.Input.Path)
	for i, f := range c.Export.Formats {
		c.Export.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if c.Input.Delimiter == `\t` {
		c.Input.Delimiter = "\t"
	}
}

// Validate checks struct constraints and returns a config AppError naming
// every offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		if c.Logging.Output != "console" && c.Logging.FilePath == "" {
			return apperrors.NewConfigError("config validation failed", nil).
				WithContext("fields", []string{"Logging.FilePath"})
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewConfigError("config validation failed", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.TrimPrefix(fe.Namespace(), "Config."))
	}
	return apperrors.NewConfigError(
		fmt.Sprintf("config validation failed: %s", strings.Join(fields, ", ")), err,
	).WithContext("fields", fields)
}

// Delimiter returns the input delimiter as a rune, or zero when unset so
// the loader can choose by file extension.
func (c *Config) Delimiter() rune {
	for _, r := range c.Input.Delimiter {
		return r
	}
	return 0
}

// ListenAddr returns the explorer listen address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			OutputPath:    "tmdb_report.html",
			Title:         "TMDb Dataset Report",
			TopN:          10,
			LabelWidth:    20,
			HistogramBins: 20,
			ChartWidth:    10,
			ChartHeight:   6,
		},
		Export: ExportConfig{
			Dir:     "export",
			Formats: []string{"csv", "xlsx"},
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  20 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxHeaderBytes:  1 << 20,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   20,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: filepath.Join("logs", "tmdbreport.log"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "tmdbreport",
			TraceExporter: "none",
			SampleRatio:   1,
			Metrics:       true,
		},
	}
}
