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

// Package ids generates the opaque identifier tokens shared across the
// runtime: agents, plugins, sessions, executions, nodes, and tasks.
//
// Every identifier is a UUIDv4 string. Callers that need a typed,
// self-documenting identifier should define a defined string type over
// these helpers rather than passing raw strings around.
package ids

import "github.com/google/uuid"

// AgentID uniquely identifies an Agent within its registry.
type AgentID string

// PluginID uniquely identifies a loaded Plugin.
type PluginID string

// SessionID identifies a conversation/debug session.
type SessionID string

// ExecutionID identifies one run of an agent, workflow, or task.
type ExecutionID string

// NodeID identifies a node within a workflow graph.
type NodeID string

// TaskID identifies a unit of work submitted to the scheduler.
type TaskID string

// New returns a fresh opaque identifier token.
func New() string {
	return uuid.NewString()
}

// NewAgentID returns a fresh AgentID.
func NewAgentID() AgentID { return AgentID(New()) }

// NewPluginID returns a fresh PluginID.
func NewPluginID() PluginID { return PluginID(New()) }

// NewSessionID returns a fresh SessionID.
func NewSessionID() SessionID { return SessionID(New()) }

// NewExecutionID returns a fresh ExecutionID.
func NewExecutionID() ExecutionID { return ExecutionID(New()) }

// NewNodeID returns a fresh NodeID.
func NewNodeID() NodeID { return NodeID(New()) }

// NewTaskID returns a fresh TaskID.
func NewTaskID() TaskID { return TaskID(New()) }
