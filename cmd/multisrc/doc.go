// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the multisrc command line.
//
// Every command loads the project configuration (multisrc.cue), sets up a
// build with the multisrc extension enabled and reports through the shared
// lipgloss styles. Errors carrying an issue.ActionableError are printed with
// their suggestions; with --verbose the matching catalog guidance follows.
package cmd
