package main

import "github.com/mofa-run/mofa/pkg/agent/runner"

// ToolCmd groups tool registry subcommands.
type ToolCmd struct {
	List ToolListCmd `cmd:"" help:"List tools available to the agent loop."`
}

type ToolListCmd struct{}

func (c *ToolListCmd) Run(app *App) error {
	// No built-in tools ship with the runtime core; concrete tool
	// implementations are plugin-provided (C4), so an unconfigured
	// registry is legitimately empty.
	registry := runner.NewToolRegistry()
	return app.printResult(registry.Descriptors())
}
