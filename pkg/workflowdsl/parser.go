package workflowdsl

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML workflow document, substituting environment
// variables into every scalar string before decoding into Document.
func ParseYAML(file string, content []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, yamlParseError(file, err)
	}
	return decodeSubstituted(file, raw)
}

// ParseJSON parses a JSON workflow document (including the
// "JSON-with-comments" variant: // and /* */ comments are stripped
// before decoding, since encoding/json itself rejects them).
func ParseJSON(file string, content []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(stripJSONComments(content), &raw); err != nil {
		return nil, &ParseError{File: file, Path: "$", Message: err.Error()}
	}
	return decodeSubstituted(file, raw)
}

// ParseFile parses content, which the caller has read from path, with
// ParseYAML or ParseJSON based on path's extension.
func ParseFile(path string, content []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(path, content)
	case ".json", ".jsonc":
		return ParseJSON(path, content)
	default:
		return nil, &ParseError{File: path, Path: "$", Message: "unsupported file extension (expected .yaml, .yml, .json, or .jsonc)"}
	}
}

func decodeSubstituted(file string, raw any) (*Document, error) {
	substituted := substituteEnvRecursive(normalizeYAMLMaps(raw))

	// Round-trip through JSON to decode into the typed Document: both
	// YAML and JSON sources converge on plain map[string]any/[]any/
	// scalar values after normalizeYAMLMaps, so json.Marshal/Unmarshal
	// is a format-agnostic way to populate the `yaml:`/`json:`-tagged
	// struct fields without a second parser.
	asJSON, err := json.Marshal(substituted)
	if err != nil {
		return nil, &ParseError{File: file, Path: "$", Message: err.Error()}
	}
	var doc Document
	if err := json.Unmarshal(asJSON, &doc); err != nil {
		return nil, &ParseError{File: file, Path: "$", Message: err.Error()}
	}
	return &doc, nil
}

// normalizeYAMLMaps converts yaml.v3's map[string]interface{} decode
// result (it already produces string keys in recent versions, but
// nested map[interface{}]interface{} can still appear from custom
// unmarshalers) into plain map[string]any so substituteEnvRecursive's
// type switch matches it.
func normalizeYAMLMaps(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[k] = normalizeYAMLMaps(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAMLMaps(vv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, vv := range val {
			out[i] = normalizeYAMLMaps(vv)
		}
		return out
	default:
		return v
	}
}

func yamlParseError(file string, err error) error {
	if te, ok := err.(*yaml.TypeError); ok && len(te.Errors) > 0 {
		return &ParseError{File: file, Path: "$", Message: strings.Join(te.Errors, "; ")}
	}
	line, msg := extractYAMLLine(err.Error())
	return &ParseError{File: file, Line: line, Path: "$", Message: msg}
}

// extractYAMLLine pulls a "line N:" prefix out of yaml.v3's error text
// when present (its scanner errors are formatted "yaml: line N: ...").
func extractYAMLLine(msg string) (int, string) {
	const marker = "line "
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return 0, msg
	}
	rest := msg[idx+len(marker):]
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return 0, msg
	}
	var line int
	if _, err := fmt.Sscanf(rest[:colon], "%d", &line); err != nil {
		return 0, msg
	}
	return line, strings.TrimSpace(rest[colon+1:])
}

// stripJSONComments removes // line comments and /* */ block comments
// outside of string literals, supporting the "JSON-with-comments"
// encoding this package supports.
func stripJSONComments(content []byte) []byte {
	var out []byte
	inString := false
	escaped := false
	for i := 0; i < len(content); i++ {
		c := content[i]
		if inString {
			out = append(out, c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			out = append(out, c)
		case c == '/' && i+1 < len(content) && content[i+1] == '/':
			for i < len(content) && content[i] != '\n' {
				i++
			}
			if i < len(content) {
				out = append(out, '\n')
			}
		case c == '/' && i+1 < len(content) && content[i+1] == '*':
			i += 2
			for i+1 < len(content) && !(content[i] == '*' && content[i+1] == '/') {
				i++
			}
			i++
		default:
			out = append(out, c)
		}
	}
	return out
}
