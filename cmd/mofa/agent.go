package main

// AgentCmd groups agent configuration subcommands.
type AgentCmd struct {
	List AgentListCmd `cmd:"" help:"List configured agents."`
}

type AgentListCmd struct{}

func (c *AgentListCmd) Run(app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	type row struct {
		Name     string   `json:"name"`
		Provider string   `json:"provider"`
		Tools    []string `json:"tools"`
	}
	rows := make([]row, 0, len(cfg.Agents))
	for name, a := range cfg.Agents {
		rows = append(rows, row{Name: name, Provider: a.Provider, Tools: a.Tools})
	}
	return app.printResult(rows)
}
