// SPDX-License-Identifier: MPL-2.0

// Package multisrc lets one documentation build draw its sources from
// several directories.
//
// The first entry of the multisrc_paths value stands for the host's own
// source root; every further entry is an extra root. For each extra root a
// shadow environment is bootstrapped the same way the host bootstraps its
// primary one. Discovery then returns the union of all roots, and a document
// missing from the primary root resolves to the first extra root holding it.
// Every source is also rendered as a Jinja template whose loader searches
// all roots, so documents can include fragments from any of them.
package multisrc
