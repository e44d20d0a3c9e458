package main

import (
	"fmt"
	"os"

	mofaconfig "github.com/mofa-run/mofa/pkg/config"
)

// App carries the CLI's global flags to every command's Run method,
// mirroring cmd/hector's pattern of threading a shared context struct
// rather than package globals.
type App struct {
	CLI *CLI
}

func (a *App) logf(format string, args ...any) {
	if a.CLI.Verbose {
		fmt.Fprintf(os.Stderr, "mofa: "+format+"\n", args...)
	}
}

// configPath resolves the --config flag, defaulting to ./mofa.yaml.
func (a *App) configPath() string {
	if a.CLI.Config != "" {
		return a.CLI.Config
	}
	return "mofa.yaml"
}

// loadConfig loads the resolved config path, translating a missing or
// malformed file into a configErrorf (exit code 2).
func (a *App) loadConfig() (*mofaconfig.Config, error) {
	path := a.configPath()
	if err := mofaconfig.LoadDotEnv("."); err != nil {
		a.logf("loading .env: %v", err)
	}
	cfg, err := mofaconfig.Load(path)
	if err != nil {
		return nil, configErrorf("loading %s: %v", path, err)
	}
	return cfg, nil
}
