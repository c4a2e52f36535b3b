// SPDX-License-Identifier: MPL-2.0

// Package environment holds the build environment of one source root: which
// documents exist, where each document's file lives, and the state carried
// between builds (version stamp, configuration fingerprint, read times).
//
// The host builds its primary environment with New; extensions wanting more
// environments over other roots use the same constructor, so every
// environment goes through the same bootstrap.
package environment
