// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that lay out documentation
// trees on disk and need a minimal build host. Helpers fail the test
// immediately instead of returning errors.
package testutil
