package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "FUNDALLOC"

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"file"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// TracingConfig contains OpenTelemetry configuration
type TracingConfig struct {
	Exporter    string  `yaml:"exporter" envconfig:"EXPORTER" default:"none"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1"`
	Environment string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"local"`
}

// AnalysisConfig controls how disclosures are read, compared and ranked.
type AnalysisConfig struct {
	SheetName       string   `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	HeaderRows      int      `yaml:"header_rows" envconfig:"HEADER_ROWS" default:"3"`
	ExcludeMarkers  []string `yaml:"exclude_markers" envconfig:"EXCLUDE_MARKERS" default:"EQUITY,a)"`
	JoinPolicy      string   `yaml:"join_policy" envconfig:"JOIN_POLICY" default:"inner"`
	DuplicatePolicy string   `yaml:"duplicate_policy" envconfig:"DUPLICATE_POLICY" default:"keep"`
	OrderBy         string   `yaml:"order_by" envconfig:"ORDER_BY" default:"name"`
	TopN            int      `yaml:"top_n" envconfig:"TOP_N" default:"10"`
	Chart           string   `yaml:"chart" envconfig:"CHART" default:"terminal"`
	WriteCSV        bool     `yaml:"write_csv" envconfig:"WRITE_CSV" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"."`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"."`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// LogFileName is the log file created under PathsConfig.LogsDir.
const LogFileName = "fundalloc.log"

// Accepted values for the enumerated settings.
var (
	JoinPolicies      = []string{"inner", "outer"}
	DuplicatePolicies = []string{"keep", "first"}
	OrderModes        = []string{"name", "date"}
	ChartModes        = []string{"terminal", "workbook", "both", "none"}
	LogOutputs        = []string{"console", "stderr", "file", "both"}
	TraceExporters    = []string{"none", "stdout"}
)

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// A value still at its built-in default is treated as unset in the environment.
func mergeConfigs(fileConfig, envConfig Config) Config {
	defaults := Default()
	mergeStruct(reflect.ValueOf(&envConfig).Elem(), reflect.ValueOf(fileConfig), reflect.ValueOf(*defaults))
	return envConfig
}

func mergeStruct(dst, file, def reflect.Value) {
	for i := 0; i < dst.NumField(); i++ {
		d, f, df := dst.Field(i), file.Field(i), def.Field(i)
		if d.Kind() == reflect.Struct {
			mergeStruct(d, f, df)
			continue
		}
		if f.IsZero() {
			continue
		}
		if d.IsZero() || reflect.DeepEqual(d.Interface(), df.Interface()) {
			d.Set(f)
		}
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"analysis.join_policy", c.Analysis.JoinPolicy, JoinPolicies},
		{"analysis.duplicate_policy", c.Analysis.DuplicatePolicy, DuplicatePolicies},
		{"analysis.order_by", c.Analysis.OrderBy, OrderModes},
		{"analysis.chart", c.Analysis.Chart, ChartModes},
		{"logging.output", c.Logging.Output, LogOutputs},
		{"tracing.exporter", c.Tracing.Exporter, TraceExporters},
	}
	for _, chk := range checks {
		if !contains(chk.allowed, chk.value) {
			return fmt.Errorf("invalid %s %q (allowed: %s)", chk.name, chk.value, strings.Join(chk.allowed, ", "))
		}
	}

	if c.Analysis.HeaderRows < 0 {
		return fmt.Errorf("analysis.header_rows must not be negative: %d", c.Analysis.HeaderRows)
	}
	if c.Analysis.TopN <= 0 {
		return fmt.Errorf("analysis.top_n must be positive: %d", c.Analysis.TopN)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be within [0,1]: %v", c.Tracing.SampleRatio)
	}

	// Logs are always structured
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, LogFileName)
	}

	return nil
}

// Validate re-checks a configuration after flags have been applied to it.
func (c *Config) Validate() error {
	return c.validate()
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	locations := []string{
		"fundalloc.yaml",
		"configs/fundalloc.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: filepath.Join("logs", LogFileName),
		},
		Tracing: TracingConfig{
			Exporter:    "none",
			SampleRatio: 1,
			Environment: "local",
		},
		Analysis: AnalysisConfig{
			HeaderRows:      3,
			ExcludeMarkers:  []string{"EQUITY", "a)"},
			JoinPolicy:      "inner",
			DuplicatePolicy: "keep",
			OrderBy:         "name",
			TopN:            10,
			Chart:           "terminal",
		},
		Paths: PathsConfig{
			InputDir:  ".",
			OutputDir: ".",
			LogsDir:   "logs",
		},
	}
}
