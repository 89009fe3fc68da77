// Package config provides centralized configuration management for fundalloc.
// It loads settings from the environment and an optional YAML file, validates
// them, and resolves the directories a run reads from and writes to.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. fundalloc.yaml (or the file named by FUNDALLOC_CONFIG)
//	3. Default values (lowest priority)
//
// Command-line flags are applied on top of the loaded Config by cmd/fundalloc.
//
// # Environment Variables
//
// All environment variables use the FUNDALLOC_ prefix followed by the section:
//
//	FUNDALLOC_LOGGING_LEVEL=debug
//	FUNDALLOC_TRACING_EXPORTER=stdout
//	FUNDALLOC_ANALYSIS_HEADER_ROWS=3
//	FUNDALLOC_ANALYSIS_EXCLUDE_MARKERS=EQUITY,a)
//	FUNDALLOC_ANALYSIS_JOIN_POLICY=outer
//	FUNDALLOC_PATHS_INPUT_DIR=./disclosures
//
// # YAML File
//
//	analysis:
//	  join_policy: outer
//	  top_n: 15
//	paths:
//	  output_dir: reports
//
// # Path Management
//
// Unlike settings, paths are resolved against the working directory:
//
//	paths, err := config.GetPaths(cfg.Paths)
//	out := paths.OutputPath("Fund_Allocation_Changes_ZN250_5_Months.xlsx")
package config
