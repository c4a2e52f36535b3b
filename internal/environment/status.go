// SPDX-License-Identifier: MPL-2.0

package environment

const (
	// ConfigNew means there is no usable cached state.
	ConfigNew ConfigStatus = iota
	// ConfigUnchanged means the cached state was built with this configuration.
	ConfigUnchanged
	// ConfigChanged means an env-scoped configuration value changed.
	ConfigChanged
	// ConfigExtensionsChanged means the version stamp changed.
	ConfigExtensionsChanged
)

// ConfigStatus tells how the configuration relates to the cached state.
type ConfigStatus int

func (s ConfigStatus) String() string {
	switch s {
	case ConfigNew:
		return "new"
	case ConfigUnchanged:
		return "unchanged"
	case ConfigChanged:
		return "changed"
	case ConfigExtensionsChanged:
		return "extensions changed"
	default:
		return "unknown"
	}
}

// Outdated reports whether every document must be read again.
func (s ConfigStatus) Outdated() bool {
	return s != ConfigUnchanged
}
