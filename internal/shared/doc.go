// Package shared holds helpers used across the unihousing packages that
// belong to no single stage of the analysis.
//
// The testutil subpackage provides a capturing slog handler and input
// fixtures (town lists, GDP workbooks, housing CSVs) for package tests.
package shared
