// Package workspace manages the directory handed to the downstream analysis
// application. The pipeline's only contract with it is that the directory
// either does not exist or is recreated empty before the application is built.
package workspace

import (
	"fmt"
	"os"
)

// Reset deletes path if present and recreates it empty. The delete and the
// recreate are not atomic: a crash in between leaves the workspace absent,
// which is an acceptable terminal state requiring only a rerun.
func Reset(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("clearing workspace %s: %w", path, err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating workspace %s: %w", path, err)
	}
	return nil
}
