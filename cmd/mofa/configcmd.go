package main

// ConfigCmd groups config inspection subcommands.
type ConfigCmd struct {
	Validate ConfigValidateCmd `cmd:"" help:"Load and validate the config file."`
	Show     ConfigShowCmd     `cmd:"" help:"Print the loaded config."`
}

type ConfigValidateCmd struct{}

func (c *ConfigValidateCmd) Run(app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	return app.printResult(map[string]any{
		"path":      app.configPath(),
		"valid":     true,
		"agents":    len(cfg.Agents),
		"providers": len(cfg.Providers),
	})
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	return app.printResult(cfg)
}
