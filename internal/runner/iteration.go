package runner

import (
	"fmt"
	"time"
)

// StopReason is why a run ended.
type StopReason int

const (
	// Running is the state before a run has stopped.
	Running StopReason = iota
	// Saturated means an iteration produced no new unions.
	Saturated
	// NodeLimit means the e-graph grew past the node limit.
	NodeLimit
	// IterationLimit means the configured number of iterations ran.
	IterationLimit
	// TimeLimit means the time budget was exhausted.
	TimeLimit
	// Stopped means a hook asked the run to stop.
	Stopped
)

var stopReasonNames = map[StopReason]string{
	Running:        "running",
	Saturated:      "saturated",
	NodeLimit:      "node-limit",
	IterationLimit: "iteration-limit",
	TimeLimit:      "time-limit",
	Stopped:        "stopped",
}

func (s StopReason) String() string {
	if name, ok := stopReasonNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StopReason(%d)", int(s))
}

// LimitReached reports whether the run was cut short by a resource bound.
// This is a normal outcome, not an error.
func (s StopReason) LimitReached() bool {
	return s == NodeLimit || s == IterationLimit || s == TimeLimit
}

// Iteration holds the statistics of one saturation iteration.
type Iteration struct {
	EGraphNodes   int            `json:"egraph_nodes"`
	EGraphClasses int            `json:"egraph_classes"`
	Applied       map[string]int `json:"applied"`
	NUnions       int            `json:"n_unions"`
	NRebuilds     int            `json:"n_rebuilds"`
	SearchTime    float64        `json:"search_time"`
	ApplyTime     float64        `json:"apply_time"`
	RebuildTime   float64        `json:"rebuild_time"`
	TotalTime     float64        `json:"total_time"`
	// StopReason is set on the last iteration of a run only.
	StopReason string `json:"stop_reason,omitempty"`
}

func seconds(d time.Duration) float64 { return d.Seconds() }
