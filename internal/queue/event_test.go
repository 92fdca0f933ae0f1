package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/limaJavier/examseating/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeatingAssignedEvent(t *testing.T) {
	//** Arrange
	result := model.Result{
		Assignments: []model.Assignment{
			{StudentId: 1, RoomId: "R2", Row: 0, Col: 0},
			{StudentId: 2, RoomId: "R1", Row: 0, Col: 0},
			{StudentId: 3, RoomId: "R2", Row: 0, Col: 2},
		},
		Outcome:   model.FeasibleSuboptimal,
		RoomsUsed: 2,
	}
	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.FixedZone("UTC+2", 2*60*60))

	//** Act
	event := NewSeatingAssignedEvent("run-1", result, at)

	//** Assert
	assert.Equal(t, "run-1", event.RunId)
	assert.Equal(t, 3, event.Students)
	assert.Equal(t, []string{"R2", "R1"}, event.Rooms)
	assert.Equal(t, "2025-06-01T07:30:00Z", event.AssignedAt)

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"outcome":"SolverFeasibleSuboptimal"`)
}

func TestNoPublisher(t *testing.T) {
	assert.NoError(t, NewNoPublisher().PublishSeatingAssigned(context.Background(), SeatingAssignedEvent{}))
}
