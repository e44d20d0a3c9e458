package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigYAML = `server:
  port: 8080
providers:
  default:
    type: echo
    model: echo-1
agents:
  assistant:
    name: assistant
    provider: default
    instruction: You are a helpful assistant.
    tools: []
plugins: {}
`

const sampleWorkflowYAML = `metadata:
  id: sample
  name: Sample workflow
  description: A three-node pipeline demonstrating the DSL.
nodes:
  - id: start
    kind: start
  - id: greet
    kind: task
  - id: finish
    kind: end
edges:
  - from: start
    to: greet
  - from: greet
    to: finish
`

// NewCmd scaffolds a fresh project directory: a config file and a
// sample workflow, mirroring hector's zero-config bootstrap idiom
// (cmd/hector's createMinimalConfig) but writing the files to disk
// instead of holding them only in memory.
type NewCmd struct {
	Dir string `arg:"" help:"Directory to create." default:"."`
}

func (c *NewCmd) Run(app *App) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return ioErrorf("creating %s: %v", c.Dir, err)
	}
	configPath := filepath.Join(c.Dir, "mofa.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return userError("%s already exists", configPath)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0644); err != nil {
		return ioErrorf("writing %s: %v", configPath, err)
	}
	workflowPath := filepath.Join(c.Dir, "workflows", "sample.yaml")
	if err := os.MkdirAll(filepath.Dir(workflowPath), 0755); err != nil {
		return ioErrorf("creating %s: %v", filepath.Dir(workflowPath), err)
	}
	if err := os.WriteFile(workflowPath, []byte(sampleWorkflowYAML), 0644); err != nil {
		return ioErrorf("writing %s: %v", workflowPath, err)
	}
	return app.printResult(fmt.Sprintf("created %s and %s", configPath, workflowPath))
}

// InitCmd writes a default config into the current directory only,
// for projects that already have their own layout.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *InitCmd) Run(app *App) error {
	path := app.configPath()
	if _, err := os.Stat(path); err == nil && !c.Force {
		return userError("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0644); err != nil {
		return ioErrorf("writing %s: %v", path, err)
	}
	return app.printResult(fmt.Sprintf("wrote %s", path))
}

// GenerateCmd writes a sample workflow DSL file.
type GenerateCmd struct {
	Output string `help:"Path to write the generated workflow to." default:"workflow.yaml"`
}

func (c *GenerateCmd) Run(app *App) error {
	if err := os.WriteFile(c.Output, []byte(sampleWorkflowYAML), 0644); err != nil {
		return ioErrorf("writing %s: %v", c.Output, err)
	}
	return app.printResult(fmt.Sprintf("wrote %s", c.Output))
}
