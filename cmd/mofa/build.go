package main

import (
	"fmt"
	"os"

	"github.com/mofa-run/mofa/pkg/workflowdsl"
)

// BuildCmd parses and validates a workflow DSL file and compiles it
// into a graph without executing it, catching structural errors
// (missing start/end nodes, dangling edges, duplicate IDs) before a
// run is attempted.
type BuildCmd struct {
	File string `arg:"" help:"Path to a workflow DSL file (.yaml/.yml/.json/.jsonc)."`
}

func (c *BuildCmd) Run(app *App) error {
	content, err := os.ReadFile(c.File)
	if err != nil {
		return ioErrorf("reading %s: %v", c.File, err)
	}
	doc, err := workflowdsl.ParseFile(c.File, content)
	if err != nil {
		return userError("parsing %s: %v", c.File, err)
	}
	// The invoker is never called: build compiles the graph but does not run it.
	builder, err := workflowdsl.Compile(doc, &echoAgentInvoker{})
	if err != nil {
		return userError("compiling %s: %v", c.File, err)
	}
	if _, err := builder.Compile(); err != nil {
		return userError("compiling %s: %v", c.File, err)
	}
	return app.printResult(fmt.Sprintf("%s: OK (%d nodes, %d edges)", c.File, len(doc.Nodes), len(doc.Edges)))
}
