// Package exporter writes the intermediate tables and the test result of a
// run to an output directory.
//
// CSVWriter holds the file handling: directory creation, truncation and a
// UTF-8 BOM for spreadsheet tools. ReportExporter builds the three report
// files on top of it:
//
//	quarterly_housing.csv  State, RegionName and one column per quarter
//	price_ratios.csv       State, RegionName, ratio and comparison group
//	ttest_result.json      recession window and test result
package exporter
