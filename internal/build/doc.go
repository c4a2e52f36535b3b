// SPDX-License-Identifier: MPL-2.0

// Package build is the documentation build host. An Application owns the
// configuration, the component registry and the primary build environment.
// It emits the builder-inited and source-read events extensions subscribe to
// and drives the incremental build: discover, read outdated sources, parse
// Markdown into cached doctrees, rebuild domains, and write HTML pages.
package build
