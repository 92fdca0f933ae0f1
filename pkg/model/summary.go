package model

import (
	"time"

	"github.com/sirupsen/logrus"
)

// BuildSummary describes the model handed to the engine and how the engine fared. It is diagnostic output only
type BuildSummary struct {
	SeatsPerRoom map[string]int `json:"seats_per_room"`
	TotalSeats   int            `json:"total_seats"`

	Variables         int `json:"variables"`
	DecisionVariables int `json:"decision_variables"`
	UsageVariables    int `json:"usage_variables"`

	ExactlyOneConstraints   int  `json:"exactly_one_constraints"`
	SeatConstraints         int  `json:"seat_constraints"`
	LinkingConstraints      int  `json:"linking_constraints"`
	TightLinkingConstraints int  `json:"tight_linking_constraints"`
	SeparationConstraints   int  `json:"separation_constraints"`
	SeparationCap           int  `json:"separation_cap"`
	SeparationCapReached    bool `json:"separation_cap_reached"`
	MatchingChecked         bool `json:"matching_checked"`

	BuildTime    time.Duration `json:"build_time"`
	SolveTime    time.Duration `json:"solve_time"`
	EngineStatus string        `json:"engine_status,omitempty"`
	Objective    int           `json:"objective"`
}

func (summary BuildSummary) Constraints() int {
	return summary.ExactlyOneConstraints + summary.SeatConstraints + summary.LinkingConstraints + summary.TightLinkingConstraints + summary.SeparationConstraints
}

func (summary BuildSummary) Fields() logrus.Fields {
	return logrus.Fields{
		"seats":                 summary.TotalSeats,
		"variables":             summary.Variables,
		"constraints":           summary.Constraints(),
		"separationConstraints": summary.SeparationConstraints,
		"separationCapReached":  summary.SeparationCapReached,
		"buildTime":             summary.BuildTime,
		"solveTime":             summary.SolveTime,
		"engineStatus":          summary.EngineStatus,
		"objective":             summary.Objective,
	}
}
