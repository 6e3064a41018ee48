// ABOUTME: Standard filesystem paths for betterprompt configuration
// ABOUTME: Resolves $XDG_CONFIG_HOME/betterprompt/ globally and .betterprompt.yaml per project

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName   = "betterprompt"
	globalFileName  = "config.yaml"
	projectFileName = ".betterprompt.yaml"
)

// GlobalDir returns the user-global config directory.
func GlobalDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(dir, globalDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), globalFileName)
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(projectRoot, projectFileName)
}
