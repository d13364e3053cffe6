// Package configs provides embedded configuration templates for triesearch.
//
// Templates are embedded at build time so `triesearch config init` works for
// source builds and binary releases alike.
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults (internal/config NewConfig)
//  2. User config (~/.config/triesearch/config.yaml)
//  3. Project config (.triesearch.yaml)
//  4. Environment variables (TRIESEARCH_*)
package configs

import _ "embed"

// UserConfigTemplate is written by `triesearch config init` at
// ~/.config/triesearch/config.yaml.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is written by `triesearch config init --project` at
// .triesearch.yaml in the working directory.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
