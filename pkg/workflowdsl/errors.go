package workflowdsl

import "fmt"

// ParseError identifies where in the source document a parse or
// validation failure occurred.
type ParseError struct {
	File    string
	Line    int    // 1-based; 0 means unknown (e.g. a post-parse validation error)
	Path    string // a dotted field path, e.g. "nodes[2].agent.registry_ref"
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Path, e.Message)
}
