package stats

import (
	"errors"

	"go-leetcode-stats/internal/model"
)

// Status 为展示区域的三种状态。
type Status int

const (
	StatusPending Status = iota
	StatusFailed
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return model.StatusFailed
	case StatusReady:
		return model.StatusReady
	default:
		return "pending"
	}
}

// State 为 Pending | Failed(err) | Ready(result) 三态之一。
// 字段不导出，只能通过构造函数得到一致的组合。
type State struct {
	status Status
	result model.StatsResult
	err    error
}

func Pending() State { return State{status: StatusPending} }

func Failed(err error) State {
	if err == nil {
		err = errors.New("unknown failure")
	}
	return State{status: StatusFailed, err: err}
}

func Ready(r model.StatsResult) State {
	if r.Heatmap == nil {
		r.Heatmap = []model.HeatmapPoint{}
	}
	return State{status: StatusReady, result: r}
}

func (s State) Status() Status { return s.status }

// Result 仅在 Ready 时返回 true。
func (s State) Result() (model.StatsResult, bool) {
	if s.status != StatusReady {
		return model.StatsResult{}, false
	}
	return s.result, true
}

// Err 仅在 Failed 时非空。
func (s State) Err() error { return s.err }
