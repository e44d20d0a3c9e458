package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mofa-run/mofa/pkg/llm"
	"github.com/mofa-run/mofa/pkg/workflow"
	"github.com/mofa-run/mofa/pkg/workflowdsl"
)

// echoAgentInvoker satisfies workflowdsl.AgentInvoker for llm_agent
// nodes using llm.EchoProvider, so `mofa dataflow` can execute a
// document containing llm_agent nodes without a configured vendor
// provider.
type echoAgentInvoker struct {
	provider *llm.EchoProvider
}

func (e *echoAgentInvoker) InvokeAgent(ctx context.Context, ref workflowdsl.AgentRef, state workflow.State) (workflow.Command, error) {
	input := fmt.Sprintf("%v", state["input"])
	resp, err := e.provider.Chat(ctx, llm.ChatRequest{Messages: []llm.Message{{Role: llm.RoleUser, Content: input}}})
	if err != nil {
		return workflow.Command{}, err
	}
	cmd := workflow.NewCommand()
	if len(resp.Choices) > 0 {
		cmd = cmd.Update("output", resp.Choices[0].Message.Content)
	}
	return cmd, nil
}

// DataflowCmd compiles a workflow DSL file and executes it once to
// completion, printing the final state.
type DataflowCmd struct {
	File  string `arg:"" help:"Path to a workflow DSL file."`
	Input string `help:"Value placed under state[\"input\"] before execution."`
}

func (c *DataflowCmd) Run(app *App) error {
	content, err := os.ReadFile(c.File)
	if err != nil {
		return ioErrorf("reading %s: %v", c.File, err)
	}
	doc, err := workflowdsl.ParseFile(c.File, content)
	if err != nil {
		return userError("parsing %s: %v", c.File, err)
	}

	builder, err := workflowdsl.Compile(doc, &echoAgentInvoker{provider: &llm.EchoProvider{Prefix: doc.Metadata.ID}})
	if err != nil {
		return userError("compiling %s: %v", c.File, err)
	}
	compiled, err := builder.Compile()
	if err != nil {
		return userError("building graph for %s: %v", c.File, err)
	}

	rtc := workflow.NewRuntimeContext(workflow.DefaultGraphConfig().MaxSteps)
	trace := workflow.NewTrace(doc.Metadata.ID)
	input := workflow.State{"input": c.Input}

	final, err := compiled.Invoke(context.Background(), input, rtc, trace)
	if err != nil {
		return &cliError{code: exitInternal, err: fmt.Errorf("executing %s: %w", c.File, err)}
	}
	return app.printResult(final)
}
