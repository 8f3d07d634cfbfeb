// Package exporter provides CSV and workbook export for survey analysis tables.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, UTF-8 BOM for Excel compatibility, and whole data frames with
// round-trip safe cell formatting.
//
// XLSXWriter: Excel workbook export for tables that leave the analysis
// pipeline, such as demographic summary tables sent to collaborators.
//
// Example usage:
//
//	// Write a merged analysis table
//	writer := exporter.NewCSVWriter(paths)
//	err := writer.WriteDataFrame("merged_2021-07-22.csv", df)
//
//	// Write a demographic table workbook
//	xlsx := exporter.NewXLSXWriter(paths)
//	err = xlsx.WriteTable("demo_table.xlsx", "Demographics", table)
package exporter
