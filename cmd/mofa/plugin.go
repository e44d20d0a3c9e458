package main

import (
	"context"

	"github.com/mofa-run/mofa/pkg/plugins"
	"github.com/mofa-run/mofa/pkg/plugins/grpc"
)

// PluginCmd groups plugin discovery and configuration subcommands.
type PluginCmd struct {
	Discover PluginDiscoverCmd `cmd:"" help:"Scan paths for plugin manifests."`
	List     PluginListCmd     `cmd:"" help:"List plugins named in the config file."`
	Loaders  PluginLoadersCmd  `cmd:"" help:"List the plugin transport loaders the registry knows about."`
}

// newRegistry builds the PluginRegistry with every supported transport
// loader registered, so RegisterLoader has a real call site: the gRPC
// loader (pkg/plugins/grpc, hashicorp/go-plugin + protobuf) is the
// only transport the runtime ships today.
func newRegistry() (*plugins.PluginRegistry, error) {
	reg := plugins.NewPluginRegistry(nil)
	if err := reg.RegisterLoader(grpc.NewGRPCLoader()); err != nil {
		return nil, err
	}
	return reg, nil
}

type PluginLoadersCmd struct{}

func (c *PluginLoadersCmd) Run(app *App) error {
	reg, err := newRegistry()
	if err != nil {
		return &cliError{code: exitInternal, err: err}
	}
	loader, err := reg.GetLoader(plugins.ProtocolGRPC)
	if err != nil {
		return &cliError{code: exitInternal, err: err}
	}
	return app.printResult(map[string]string{"protocol": string(loader.SupportedProtocol())})
}

type PluginDiscoverCmd struct {
	Path []string `arg:"" optional:"" help:"Directories to scan (default ./plugins)."`
}

func (c *PluginDiscoverCmd) Run(app *App) error {
	cfg := &plugins.DiscoveryConfig{Enabled: true, ScanSubdirectories: true}
	if len(c.Path) > 0 {
		cfg.Paths = c.Path
	} else {
		cfg.Paths = []string{"./plugins"}
	}
	discovery := plugins.NewPluginDiscovery(cfg)
	found, err := discovery.DiscoverPlugins(context.Background())
	if err != nil {
		return ioErrorf("discovering plugins: %v", err)
	}
	return app.printResult(found)
}

type PluginListCmd struct{}

func (c *PluginListCmd) Run(app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	type row struct {
		Name   string         `json:"name"`
		Config map[string]any `json:"config"`
	}
	rows := make([]row, 0, len(cfg.Plugins))
	for name, pc := range cfg.Plugins {
		rows = append(rows, row{Name: name, Config: pc})
	}
	return app.printResult(rows)
}
