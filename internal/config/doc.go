// SPDX-License-Identifier: MPL-2.0

// Package config loads the project configuration of a documentation build.
//
// The configuration lives in multisrc.cue next to the documentation sources.
// It is validated against an embedded CUE schema (config_schema.cue) and then
// merged into Viper, so MULTISRC_<KEY> environment variables can override
// top-level scalars. Extensions declare their own values with AddValue; every
// value carries a rebuild scope and Fingerprint hashes the values of one scope
// so cached build state can be invalidated when they change.
package config
