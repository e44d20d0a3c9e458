// Command mofa is the runtime core's CLI surface: a
// thin kong-based wiring layer over the runtime components, following
// cmd/hector's pattern of one Run method per verb. CLI parsing itself
// is a pinned external contract, not part of the runtime core, so this binary stays a wiring shim and pushes all behavior into
// pkg/*.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// exit codes for the CLI.
const (
	exitSuccess     = 0
	exitUserError   = 1
	exitConfigError = 2
	exitIOError     = 3
	exitInternal    = 4
)

// CLI is the full pinned verb surface.
type CLI struct {
	Verbose bool   `help:"Enable verbose logging." short:"v"`
	Output  string `help:"Output format." enum:"text,json,table" default:"text" short:"o"`
	Config  string `help:"Path to the runtime config file." short:"c"`

	New       NewCmd      `cmd:"" help:"Scaffold a new project directory."`
	Init      InitCmd     `cmd:"" help:"Write a default config into the current directory."`
	Build     BuildCmd    `cmd:"" help:"Parse and validate a workflow DSL file without running it."`
	Run       RunCmd      `cmd:"" help:"Run a configured agent against one input."`
	Dataflow  DataflowCmd `cmd:"" help:"Compile and execute a workflow DSL file."`
	Generate  GenerateCmd `cmd:"" help:"Generate a sample workflow DSL file."`
	Info      InfoCmd     `cmd:"" help:"Print build and component information."`
	Db        DbCmd       `cmd:"" help:"Report the status of the in-process persistence stores."`
	Agent     AgentCmd    `cmd:"" help:"Agent configuration commands."`
	ConfigCmd ConfigCmd   `cmd:"config" help:"Validate or print the loaded config."`
	Plugin    PluginCmd   `cmd:"" help:"Plugin discovery and registry commands."`
	Session   SessionCmd  `cmd:"" help:"Debug-session recorder commands."`
	Tool      ToolCmd     `cmd:"" help:"Tool registry commands."`
	Tui       TuiCmd      `cmd:"" help:"Launch the interactive debugger (outside the runtime core)."`
	Version   VersionCmd  `cmd:"" help:"Print the version."`
}

func main() {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("mofa"),
		kong.Description("MoFA runtime core CLI."),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitInternal)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}

	app := &App{CLI: &cli}
	if err := kctx.Run(app); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitInternal
}

// cliError pins an error to one of the CLI's exit codes.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &cliError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func configErrorf(format string, args ...any) error {
	return &cliError{code: exitConfigError, err: fmt.Errorf(format, args...)}
}

func ioErrorf(format string, args ...any) error {
	return &cliError{code: exitIOError, err: fmt.Errorf(format, args...)}
}
