package main

import mofa "github.com/mofa-run/mofa"

// VersionCmd prints the runtime's version.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	return app.printResult(mofa.GetVersion().String())
}

// InfoCmd prints a summary of the runtime's components.
type InfoCmd struct{}

type infoReport struct {
	Version    string   `json:"version"`
	Components []string `json:"components"`
}

func (c *InfoCmd) Run(app *App) error {
	return app.printResult(infoReport{
		Version: mofa.GetVersion().String(),
		Components: []string{
			"mofaerr - error taxonomy",
			"message/bus - agent messaging",
			"plugins - plugin registry and hot reload",
			"agent/runner - lifecycle and tool loop",
			"scheduler - priority dispatch",
			"workflow/workflowdsl - graph engine and DSL",
			"resilience - circuit breaker, retry, fallback",
			"rag/vector/embedder - retrieval pipeline",
			"telemetry - debug session recorder",
			"persistence - in-memory store contracts",
			"llm - provider contract",
		},
	})
}
