// SPDX-License-Identifier: MPL-2.0

package multisrc

import (
	"iter"

	"github.com/invowk/multisrc/internal/environment"
)

// ShadowEnvironments lazily bootstraps one environment per root, in order,
// through the same constructor the host uses for its primary environment.
// Each shadow shares the host's doctree directory and gets its own domains.
// Iteration stops after the first error.
func ShadowEnvironments(host environment.Host, roots []string) iter.Seq2[*environment.BuildEnvironment, error] {
	return func(yield func(*environment.BuildEnvironment, error) bool) {
		for _, root := range roots {
			env, err := environment.New(host, root)
			if !yield(env, err) || err != nil {
				return
			}
		}
	}
}
