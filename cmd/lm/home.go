package main

import (
	"os"
	"path/filepath"
)

const scenariosDir = "scenarios"

// HomeFlag locates the configuration and the scenarios.
type HomeFlag struct {
	Home string `long:"home" description:"Path to the lm home directory"`
}

func NewHomeFlag() HomeFlag {
	return HomeFlag{Home: defaultHome()}
}

func defaultHome() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "lm")
	}
	return ".lm"
}
