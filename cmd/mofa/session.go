package main

import (
	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/telemetry"
)

// SessionCmd groups debug-session recorder subcommands. The recorder
// is in-process only, so `demo` is the one subcommand
// that produces anything interesting in a one-shot CLI invocation: it
// exercises start_session/record_event/end_session/get_session and
// prints the result.
type SessionCmd struct {
	Demo SessionDemoCmd `cmd:"" help:"Record a short synthetic debug session and print it."`
}

type SessionDemoCmd struct {
	Workflow string `help:"Workflow ID to attribute the demo session to." default:"demo"`
}

func (c *SessionDemoCmd) Run(app *App) error {
	recorder := telemetry.NewRecorder(0)
	execID := ids.NewExecutionID()
	sessionID := recorder.StartSession(c.Workflow, execID)

	if err := recorder.RecordEvent(sessionID, telemetry.DebugEvent{
		Kind: telemetry.EventNodeStart,
		Node: "start",
	}); err != nil {
		return &cliError{code: exitInternal, err: err}
	}
	if err := recorder.RecordEvent(sessionID, telemetry.DebugEvent{
		Kind:       telemetry.EventNodeEnd,
		Node:       "start",
		DurationMs: 1,
	}); err != nil {
		return &cliError{code: exitInternal, err: err}
	}
	if err := recorder.EndSession(sessionID, telemetry.SessionCompleted); err != nil {
		return &cliError{code: exitInternal, err: err}
	}

	sess, _ := recorder.GetSession(sessionID)
	return app.printResult(map[string]any{
		"session": sess,
		"events":  recorder.GetEvents(sessionID),
	})
}
