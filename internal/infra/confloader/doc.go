// Package confloader loads layered configuration with koanf and watches
// the configuration file for changes.
//
// Priority (highest to lowest):
//
//  1. Explicit overrides (command-line flags)
//  2. Environment variables (ROSTERTRACE_SECTION_KEY)
//  3. Configuration file (YAML)
//  4. Default values
package confloader
