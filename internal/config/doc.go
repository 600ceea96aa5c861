// Package config provides configuration management for the analysis run.
// It loads settings from multiple sources, validates them and carries the
// schema contract of each input file.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), including a local .env file
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern UNIHOUSING_<SECTION>_<FIELD>:
//
//	UNIHOUSING_INPUTS_GDP_FILE=data/gdplev.xlsx
//	UNIHOUSING_ANALYSIS_VARIANCE=welch
//	UNIHOUSING_SCHEMA_GDP_START_OFFSET=212
//	UNIHOUSING_LOGGING_LEVEL=debug
//
// # Schema Contracts
//
// Each input source has a schema value describing its fixed layout: rows to
// skip, column positions, the row offset of the first analysed quarter and
// the identifying columns to drop. The defaults describe the published
// datasets. Loaders check the contract and fail with a schema error
// instead of reading shifted data.
package config
