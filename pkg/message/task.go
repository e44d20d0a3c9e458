// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package message defines the task and envelope types that flow
// between the bus, the scheduler, and agent workers.
package message

import (
	"time"

	"github.com/mofa-run/mofa/pkg/ids"
)

// Priority orders tasks for the scheduler. Discriminant order is
// reversed from intuition: a LOWER numeric value is HIGHER priority,
// so priority ordering reads inverted from intuition.
type Priority int

const (
	PriorityCritical Priority = 0
	PriorityHigh     Priority = 1
	PriorityNormal   Priority = 2
	PriorityLow      Priority = 3
)

// Less reports whether p has strictly higher priority than other
// (i.e. p would be dispatched first).
func (p Priority) Less(other Priority) bool {
	return p < other
}

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Task is a unit of work submitted to the priority scheduler.
type Task struct {
	TaskID      ids.TaskID
	Content     string
	Priority    Priority
	Deadline    *time.Time
	Metadata    map[string]any
	SubmittedAt time.Time
}

// NewTask creates a Task with a fresh ID and a submission timestamp.
func NewTask(content string, priority Priority) *Task {
	return &Task{
		TaskID:      ids.NewTaskID(),
		Content:     content,
		Priority:    priority,
		Metadata:    make(map[string]any),
		SubmittedAt: time.Now(),
	}
}

// ResponseStatus is the outcome reported back for a dispatched task.
type ResponseStatus string

const (
	StatusSuccess ResponseStatus = "success"
	StatusFailed  ResponseStatus = "failed"
	StatusPending ResponseStatus = "pending"
)
