// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

var fingerprintMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("config: cbor encoder options: %v", err))
	}
	return mode
}

// Fingerprint hashes the values declared with the given rebuild scope. Two
// configurations with the same fingerprint build the same environment.
func (c *Config) Fingerprint(scope Rebuild) (string, error) {
	snapshot := make(map[string]any)
	for _, val := range c.Declared() {
		if val.Rebuild != scope {
			continue
		}
		snapshot[val.Name], _ = c.Get(val.Name)
	}

	data, err := fingerprintMode.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("encode configuration: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
