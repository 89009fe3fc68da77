package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"FUNDALLOC_CONFIG",
	"FUNDALLOC_LOGGING_LEVEL", "FUNDALLOC_LOGGING_FORMAT", "FUNDALLOC_LOGGING_OUTPUT",
	"FUNDALLOC_TRACING_EXPORTER",
	"FUNDALLOC_ANALYSIS_HEADER_ROWS", "FUNDALLOC_ANALYSIS_EXCLUDE_MARKERS",
	"FUNDALLOC_ANALYSIS_JOIN_POLICY", "FUNDALLOC_ANALYSIS_DUPLICATE_POLICY",
	"FUNDALLOC_ANALYSIS_ORDER_BY", "FUNDALLOC_ANALYSIS_TOP_N", "FUNDALLOC_ANALYSIS_CHART",
	"FUNDALLOC_PATHS_INPUT_DIR", "FUNDALLOC_PATHS_OUTPUT_DIR", "FUNDALLOC_PATHS_LOGS_DIR",
}

// chdirTemp moves the test into an empty directory so no stray
// fundalloc.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
	return dir
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "file", cfg.Logging.Output)
				assert.Equal(t, filepath.Join("logs", LogFileName), cfg.Logging.FilePath)

				assert.Equal(t, "none", cfg.Tracing.Exporter)

				assert.Equal(t, 3, cfg.Analysis.HeaderRows)
				assert.Equal(t, []string{"EQUITY", "a)"}, cfg.Analysis.ExcludeMarkers)
				assert.Equal(t, "inner", cfg.Analysis.JoinPolicy)
				assert.Equal(t, "keep", cfg.Analysis.DuplicatePolicy)
				assert.Equal(t, "name", cfg.Analysis.OrderBy)
				assert.Equal(t, 10, cfg.Analysis.TopN)
				assert.Equal(t, "terminal", cfg.Analysis.Chart)
				assert.False(t, cfg.Analysis.WriteCSV)

				assert.Equal(t, ".", cfg.Paths.InputDir)
				assert.Equal(t, ".", cfg.Paths.OutputDir)
				assert.Equal(t, "logs", cfg.Paths.LogsDir)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"FUNDALLOC_LOGGING_LEVEL":            "debug",
				"FUNDALLOC_LOGGING_FORMAT":           "text",
				"FUNDALLOC_ANALYSIS_JOIN_POLICY":     "outer",
				"FUNDALLOC_ANALYSIS_TOP_N":           "5",
				"FUNDALLOC_ANALYSIS_EXCLUDE_MARKERS": "EQUITY,DEBT",
				"FUNDALLOC_PATHS_INPUT_DIR":          "disclosures",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // validate() forces json
				assert.Equal(t, "outer", cfg.Analysis.JoinPolicy)
				assert.Equal(t, 5, cfg.Analysis.TopN)
				assert.Equal(t, []string{"EQUITY", "DEBT"}, cfg.Analysis.ExcludeMarkers)
				assert.Equal(t, "disclosures", cfg.Paths.InputDir)
			},
		},
		{
			name:    "unknown join policy",
			env:     map[string]string{"FUNDALLOC_ANALYSIS_JOIN_POLICY": "left"},
			wantErr: true,
		},
		{
			name:    "zero top n",
			env:     map[string]string{"FUNDALLOC_ANALYSIS_TOP_N": "0"},
			wantErr: true,
		},
		{
			name:    "non-numeric header rows",
			env:     map[string]string{"FUNDALLOC_ANALYSIS_HEADER_ROWS": "three"},
			wantErr: true,
		},
		{
			name: "config file with environment override",
			env: map[string]string{
				"FUNDALLOC_ANALYSIS_TOP_N": "7",
			},
			fileContent: `
analysis:
  top_n: 15
  join_policy: outer
  order_by: date
paths:
  output_dir: reports
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7, cfg.Analysis.TopN)             // from env
				assert.Equal(t, "outer", cfg.Analysis.JoinPolicy) // from file
				assert.Equal(t, "date", cfg.Analysis.OrderBy)     // from file
				assert.Equal(t, "reports", cfg.Paths.OutputDir)   // from file
				assert.Equal(t, 3, cfg.Analysis.HeaderRows)       // default
			},
		},
		{
			name:        "config file with invalid value",
			fileContent: "analysis:\n  chart: pie\n",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, envVar := range envVars {
				t.Setenv(envVar, "")
				os.Unsetenv(envVar)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			dir := chdirTemp(t)
			if tt.fileContent != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "fundalloc.yaml"), []byte(tt.fileContent), 0644))
			}

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		os.Unsetenv(envVar)
	}
	chdirTemp(t)

	configFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("analysis:\n  duplicate_policy: first\n"), 0644))
	t.Setenv("FUNDALLOC_CONFIG", configFile)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Analysis.DuplicatePolicy)
}

// TestLoadFromFile tests the loadFromFile function
func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "valid YAML config",
			fileContent: `
logging:
  level: debug
analysis:
  sheet_name: Portfolio
  header_rows: 4
  exclude_markers: ["EQUITY"]
  write_csv: true
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "Portfolio", cfg.Analysis.SheetName)
				assert.Equal(t, 4, cfg.Analysis.HeaderRows)
				assert.Equal(t, []string{"EQUITY"}, cfg.Analysis.ExcludeMarkers)
				assert.True(t, cfg.Analysis.WriteCSV)
			},
		},
		{
			name:        "invalid YAML syntax",
			fileContent: "invalid: yaml: content: [unclosed",
			wantErr:     true,
		},
		{
			name:        "partial config",
			fileContent: "analysis:\n  top_n: 3\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3, cfg.Analysis.TopN)
				// Other fields should be zero values
				assert.Empty(t, cfg.Analysis.JoinPolicy)
				assert.Empty(t, cfg.Paths.InputDir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "fundalloc.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))

			cfg, err := loadFromFile(configFile)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}

	t.Run("non-existent file", func(t *testing.T) {
		_, err := loadFromFile("/non/existent/file.yaml")
		assert.Error(t, err)
	})
}

// TestMergeConfigs tests the mergeConfigs function
func TestMergeConfigs(t *testing.T) {
	fileConfig := Config{
		Logging: LoggingConfig{Level: "error", FilePath: "custom.log"},
		Analysis: AnalysisConfig{
			JoinPolicy: "outer",
			TopN:       20,
			SheetName:  "Holdings",
		},
	}

	envConfig := *Default()
	envConfig.Logging.FilePath = ""
	envConfig.Analysis.TopN = 4 // explicitly set, should override file

	merged := mergeConfigs(fileConfig, envConfig)

	// Environment should take precedence when set
	assert.Equal(t, 4, merged.Analysis.TopN)

	// File config should be used when env is at its default or empty
	assert.Equal(t, "error", merged.Logging.Level)
	assert.Equal(t, "outer", merged.Analysis.JoinPolicy)
	assert.Equal(t, "Holdings", merged.Analysis.SheetName)
	assert.Equal(t, "custom.log", merged.Logging.FilePath)

	// Untouched values keep their defaults
	assert.Equal(t, "keep", merged.Analysis.DuplicatePolicy)
	assert.Equal(t, []string{"EQUITY", "a)"}, merged.Analysis.ExcludeMarkers)
}

// TestValidate tests the validate function
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid configuration",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown duplicate policy",
			mutate:  func(c *Config) { c.Analysis.DuplicatePolicy = "last" },
			wantErr: true,
			errMsg:  `invalid analysis.duplicate_policy "last"`,
		},
		{
			name:    "unknown order",
			mutate:  func(c *Config) { c.Analysis.OrderBy = "size" },
			wantErr: true,
			errMsg:  `invalid analysis.order_by "size"`,
		},
		{
			name:    "negative header rows",
			mutate:  func(c *Config) { c.Analysis.HeaderRows = -1 },
			wantErr: true,
			errMsg:  "analysis.header_rows must not be negative",
		},
		{
			name:    "negative top n",
			mutate:  func(c *Config) { c.Analysis.TopN = -3 },
			wantErr: true,
			errMsg:  "analysis.top_n must be positive",
		},
		{
			name:    "unknown trace exporter",
			mutate:  func(c *Config) { c.Tracing.Exporter = "otlp" },
			wantErr: true,
			errMsg:  `invalid tracing.exporter "otlp"`,
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(c *Config) { c.Tracing.SampleRatio = 1.5 },
			wantErr: true,
			errMsg:  "tracing.sample_ratio",
		},
		{
			name:   "zero header rows allowed",
			mutate: func(c *Config) { c.Analysis.HeaderRows = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_FillsLogFilePath(t *testing.T) {
	cfg := Default()
	cfg.Logging.FilePath = ""
	cfg.Paths.LogsDir = "var/log"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join("var/log", LogFileName), cfg.Logging.FilePath)
}
