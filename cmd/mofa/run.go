package main

import (
	"context"

	"github.com/mofa-run/mofa/pkg/agent/runner"
	"github.com/mofa-run/mofa/pkg/llm"
)

// RunCmd executes one configured agent against a single input using
// the tool loop (C5). Providers are not wired to a vendor SDK; every agent currently
// runs against llm.EchoProvider regardless of its configured provider
// type, which is sufficient to exercise the loop end to end.
type RunCmd struct {
	Agent   string `arg:"" help:"Agent name from the config's agents section."`
	Message string `arg:"" help:"User message to send."`
}

func (c *RunCmd) Run(app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	agentCfg, ok := cfg.Agents[c.Agent]
	if !ok {
		return userError("unknown agent %q", c.Agent)
	}

	provider := &llm.EchoProvider{Prefix: agentCfg.Name}
	adapter := &llm.RunnerAdapter{Provider: provider}
	tools := runner.NewToolRegistry()
	loop := runner.NewToolLoop(adapter, tools, runner.DefaultLoopConfig())
	actx := runner.NewContext(nil, runner.EventEmitterFunc(func(name string, payload any) {
		app.logf("event %s: %+v", name, payload)
	}))

	rnr, err := runner.New(loop, actx)
	if err != nil {
		return &cliError{code: exitInternal, err: err}
	}
	defer rnr.Shutdown()

	output, err := rnr.Execute(context.Background(), agentCfg.Instruction, c.Message)
	if err != nil {
		return &cliError{code: exitInternal, err: err}
	}
	return app.printResult(output)
}
