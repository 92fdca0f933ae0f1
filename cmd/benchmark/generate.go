package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/limaJavier/examseating/pkg/model"
	"github.com/samber/lo"
)

// InstanceShape describes a family of random seating requests
type InstanceShape struct {
	Students   int
	Exams      int
	Rooms      int
	Rows, Cols int
	Aisles     bool    // Every room skips odd rows and cols
	Restricted float64 // Share of exams restricted to a random half of the rooms
}

func (shape InstanceShape) String() string {
	return fmt.Sprintf("s%d-e%d-r%d-%dx%d-a%v-p%.2f", shape.Students, shape.Exams, shape.Rooms, shape.Rows, shape.Cols, shape.Aisles, shape.Restricted)
}

// generate draws a request of the given shape. The same seed always yields the same request
func generate(shape InstanceShape, seed uint64) model.ModelInput {
	random := rand.New(rand.NewPCG(seed, uint64(shape.Students)))

	exams := lo.Times(shape.Exams, func(i int) string { return fmt.Sprintf("exam-%d", i) })
	rooms := lo.Times(shape.Rooms, func(i int) model.Room {
		return model.Room{Id: fmt.Sprintf("room-%d", i), Rows: shape.Rows, Cols: shape.Cols, SkipRows: shape.Aisles, SkipCols: shape.Aisles}
	})
	students := lo.Times(shape.Students, func(i int) model.Student {
		return model.Student{Id: i + 1, Exam: exams[random.IntN(len(exams))]}
	})

	restrictions := model.Restrictions{}
	for _, exam := range exams {
		if random.Float64() >= shape.Restricted {
			continue
		}
		allowed := lo.Filter(rooms, func(_ model.Room, _ int) bool { return random.IntN(2) == 0 })
		if len(allowed) == 0 {
			allowed = rooms[:1]
		}
		restrictions[exam] = lo.Map(allowed, func(room model.Room, _ int) string { return room.Id })
	}

	return model.ModelInput{Students: students, Rooms: rooms, Restrictions: restrictions}
}

// writeInstance stores input in the request format accepted by the CLI
func writeInstance(directory string, name string, input model.ModelInput) (string, error) {
	request := map[string]any{
		"students":     input.Students,
		"rooms":        input.Rooms,
		"restrictions": input.Restrictions,
	}
	bytes, err := json.Marshal(request)
	if err != nil {
		return "", err
	}
	file := filepath.Join(directory, name+".json")
	return file, os.WriteFile(file, bytes, 0644)
}
