package model

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

const (
	aisleCell = "X"
	emptyCell = "."
)

// RenderLayout draws every occupied room as a grid. Students show as their exam letter followed by their id (A12), aisles
// as X and free seats as a dot
func RenderLayout(writer io.Writer, assignments []Assignment, input ModelInput) error {
	exams := lo.SliceToMap(input.Students, func(student Student) (int, string) { return student.Id, student.Exam })

	// Exams are lettered in order of first appearance among the assignments
	letters := make(map[string]string)
	legend := make([]string, 0)
	for _, assignment := range assignments {
		exam := exams[assignment.StudentId]
		if _, ok := letters[exam]; !ok {
			letters[exam] = examLetter(len(letters))
			legend = append(legend, exam)
		}
	}

	byRoom := lo.GroupBy(assignments, func(assignment Assignment) string { return assignment.RoomId })

	var builder strings.Builder
	for _, room := range input.Rooms {
		roomAssignments, ok := byRoom[room.Id]
		if !ok {
			continue
		}

		grid := make([][]string, room.Rows)
		for row := range grid {
			grid[row] = make([]string, room.Cols)
			for col := range grid[row] {
				grid[row][col] = emptyCell
				if !validSeat(room, Seat{Row: row, Col: col}) {
					grid[row][col] = aisleCell
				}
			}
		}
		for _, assignment := range roomAssignments {
			if validSeat(room, Seat{Row: assignment.Row, Col: assignment.Col}) {
				grid[assignment.Row][assignment.Col] = fmt.Sprintf("%v%d", letters[exams[assignment.StudentId]], assignment.StudentId)
			}
		}

		fmt.Fprintf(&builder, "Room %v (%d students)\n", room.Id, len(roomAssignments))
		builder.WriteString("     ")
		for col := range room.Cols {
			fmt.Fprintf(&builder, "%8d", col)
		}
		builder.WriteString("\n")
		for row, cells := range grid {
			fmt.Fprintf(&builder, "%5d", row)
			for _, cell := range cells {
				fmt.Fprintf(&builder, "%8v", cell)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	if len(legend) > 0 {
		builder.WriteString("Exams:")
		for _, exam := range legend {
			fmt.Fprintf(&builder, " %v=%v", letters[exam], exam)
		}
		builder.WriteString("\n")
	}

	_, err := io.WriteString(writer, builder.String())
	return err
}

// examLetter names the i-th exam A..Z, then AA, AB and so on
func examLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return examLetter(i/26-1) + examLetter(i%26)
}
