package config

import (
	"os"
	"path/filepath"
)

func IsDebug() bool {
	return os.Getenv("ANIMUS_DEBUG") == "1"
}

func GetRuntimePath() string {
	path := os.Getenv("ANIMUS_RUNTIME_PATH")
	if path == "" {
		path = ".animus"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
