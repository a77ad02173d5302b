// Package configs provides the embedded configuration template for faqmatch.
//
// The template is written by `faqmatch config init`, either as .faqmatch.yaml
// in the current directory or as the user config under
// $XDG_CONFIG_HOME/faqmatch/config.yaml (--user).
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults
//  2. User config
//  3. Project config (.faqmatch.yaml)
//  4. Environment variables (FAQMATCH_*)
//  5. Command-line flags
package configs

import _ "embed"

// ConfigTemplate is the commented example configuration.
//
//go:embed config.example.yaml
var ConfigTemplate string
