// Package queue publishes seating events to RabbitMQ
package queue

import (
	"time"

	"github.com/limaJavier/examseating/pkg/model"
	"github.com/samber/lo"
)

const SeatingAssignedQueue = "seating.assigned"

// SeatingAssignedEvent is published once a seating has been produced and stored. It carries enough for consumers to
// notify students without querying the database
type SeatingAssignedEvent struct {
	RunId       string             `json:"run_id"`
	Outcome     model.Outcome      `json:"outcome"`
	Students    int                `json:"students"`
	RoomsUsed   int                `json:"rooms_used"`
	Rooms       []string           `json:"rooms"`
	Assignments []model.Assignment `json:"assignments"`
	AssignedAt  string             `json:"assigned_at"`
}

func NewSeatingAssignedEvent(runId string, result model.Result, at time.Time) SeatingAssignedEvent {
	return SeatingAssignedEvent{
		RunId:     runId,
		Outcome:   result.Outcome,
		Students:  len(result.Assignments),
		RoomsUsed: result.RoomsUsed,
		Rooms: lo.Uniq(lo.Map(result.Assignments, func(assignment model.Assignment, _ int) string {
			return assignment.RoomId
		})),
		Assignments: result.Assignments,
		AssignedAt:  at.UTC().Format(time.RFC3339),
	}
}
