// Package primitives provides versioning utilities for TableConfig.
package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ComputeVersion computes a deterministic version for a table.
// Priority: user-provided config.Version, else SHA256(table JSON)[:8].
// Callbacks are not part of the fingerprint; handler names are.
func ComputeVersion(config *TableConfig) string {
	if config.Version != "" {
		return config.Version
	}

	data, err := json.Marshal(config)
	if err != nil {
		// unreachable for tables built from the descriptor types
		return "invalid"
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
