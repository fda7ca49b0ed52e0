package config

import (
	"fmt"
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
)

// getConfigHomeDir returns the full path to the home directory that stores all config files.
// Uses global variable.
func getConfigHomeDir() (string, error) {
	if starPipeHomeDir == "" {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("unable to find home directory: %w", err)
		}
		starPipeHomeDir = path.Join(home, MainDir)
	}
	return starPipeHomeDir, nil
}

// makeDir wll make the given directory if it does not already exist.
// If it exist then return nil.
// An error is returned if there is a problem creating the dir.
func makeDir(dir string) error {
	// Test if config dir exists.
	_, err := os.Stat(dir)
	if os.IsNotExist(err) { // if it doesn't exist...
		// Create the directory.
		if err = os.MkdirAll(dir, 0755); err != nil { // if the dir was NOT created...
			return fmt.Errorf("error creating directory %v", dir)
		}
	} else if err != nil { // if there was an error getting status...
		return err
	}
	return nil
}
