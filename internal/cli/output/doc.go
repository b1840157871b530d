// Package output provides output formatting for rostertrace-cli.
//
// Formatters render data as a table, JSON or YAML. Table output accepts a
// prebuilt *Table or derives one from structs, slices and maps. JSON and
// YAML share field names through the json struct tags.
package output
