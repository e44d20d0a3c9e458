package main

// TuiCmd acknowledges the `tui` verb, but the
// interactive time-travel debugger UI itself is explicitly out of
// scope for the runtime core. Session data to drive such a UI is available via
// `mofa session demo` and pkg/telemetry.Recorder.
type TuiCmd struct{}

func (c *TuiCmd) Run(app *App) error {
	return userError("interactive TUI is outside the runtime core; use `mofa session demo` or pkg/telemetry.Recorder directly")
}
