package main

import (
	"encoding/json"
	"fmt"
)

// printResult renders v per the --output flag. "table" falls back to
// the same pretty-printed JSON as "json" — none of this CLI's data is
// naturally tabular enough to warrant a dedicated renderer, and
// text/tabwriter formatting is pinned as an external, out-of-scope
// concern.
func (a *App) printResult(v any) error {
	switch a.CLI.Output {
	case "json", "table":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	default:
		if s, ok := v.(string); ok {
			fmt.Println(s)
			return nil
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	}
	return nil
}
