package workflow

import "time"

// GraphConfig configures a compiled graph's execution behavior
//.
type GraphConfig struct {
	MaxSteps           int
	Debug              bool
	CheckpointEnabled  bool
	CheckpointInterval int
	Timeout            time.Duration
	MaxParallelism     int
	Custom             map[string]any
}

// DefaultGraphConfig returns a config with a conservative recursion
// limit and no checkpointing.
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		MaxSteps:           25,
		MaxParallelism:     8,
		CheckpointInterval: 1,
	}
}
