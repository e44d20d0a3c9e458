package workflowdsl

import "os"

// substituteEnv applies ${VAR} and $VAR substitution to s via
// os.Expand; a reference to a variable that isn't set is kept as $VAR
// (a ${VAR} reference loses its braces) instead of becoming the empty
// string os.Expand would otherwise produce.
func substituteEnv(s string) string {
	return os.Expand(s, func(name string) string {
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		// os.Expand already strips ${...}/bare $ syntax before calling
		// this mapping function, so an unset variable can only be
		// reconstructed as its bare name, not its original brace style.
		// It is still left as a recognizable, unsubstituted reference
		// rather than silently becoming an empty string.
		return "$" + name
	})
}

// substituteEnvRecursive walks a decoded YAML/JSON value (maps, slices,
// strings) applying substituteEnv to every string scalar.
func substituteEnvRecursive(v any) any {
	switch val := v.(type) {
	case string:
		return substituteEnv(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[k] = substituteEnvRecursive(vv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, vv := range val {
			out[i] = substituteEnvRecursive(vv)
		}
		return out
	default:
		return v
	}
}
