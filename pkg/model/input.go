package model

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrInvalidInput = errors.New("invalid input")

type Student struct {
	Id   int    `json:"student_id"`
	Exam string `json:"exam"`
}

// Room is a grid of Rows x Cols positions. When SkipRows (SkipCols) is set only even-indexed rows (columns) hold seats,
// the odd ones being aisles
type Room struct {
	Id       string `json:"room_id"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	SkipRows bool   `json:"skip_rows"`
	SkipCols bool   `json:"skip_cols"`
}

// Restrictions maps an exam to the rooms it may take place in. Exams without an entry may use any room
type Restrictions map[string][]string

type ModelInput struct {
	Students       []Student
	Rooms          []Room
	Restrictions   Restrictions
	TimeoutSeconds int // Zero means the seater's default budget
}

type Assignment struct {
	StudentId int    `json:"student_id"`
	RoomId    string `json:"room_id"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

type RawStudent struct {
	StudentId int `mapstructure:"student_id"`
	Exam      string
}

type RawRoom struct {
	RoomId   string `mapstructure:"room_id"`
	Rows     int
	Cols     int
	SkipRows bool `mapstructure:"skip_rows"`
	SkipCols bool `mapstructure:"skip_cols"`
}

type RawModelInput struct {
	Students       []RawStudent
	Rooms          []RawRoom
	Restrictions   map[string][]string
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

func InputFromJson(file string) (ModelInput, error) {
	reader, err := os.Open(file)
	if err != nil {
		return ModelInput{}, errors.Wrapf(err, "cannot open input file %v", file)
	}
	defer reader.Close()
	return InputFromReader(reader)
}

func InputFromReader(reader io.Reader) (ModelInput, error) {
	var inputJson map[string]any
	if err := json.NewDecoder(reader).Decode(&inputJson); err != nil {
		return ModelInput{}, errors.Wrapf(ErrInvalidInput, "malformed json: %v", err)
	}

	var rawInput RawModelInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: integralNumbers,
		Result:     &rawInput,
	})
	if err != nil {
		return ModelInput{}, errors.Wrap(err, "cannot build input decoder")
	}
	if err := decoder.Decode(inputJson); err != nil {
		return ModelInput{}, errors.Wrapf(ErrInvalidInput, "unexpected input shape: %v", err)
	}
	return ProcessRawInput(rawInput)
}

// integralNumbers refuses JSON numbers with a fractional part where an integer is expected, mapstructure would
// truncate them otherwise
func integralNumbers(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if number := data.(float64); number != math.Trunc(number) {
			return nil, errors.Errorf("%v is not an integer", number)
		}
	}
	return data, nil
}

func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	input := ModelInput{
		Students: lo.Map(rawInput.Students, func(student RawStudent, _ int) Student {
			return Student{Id: student.StudentId, Exam: student.Exam}
		}),
		Rooms: lo.Map(rawInput.Rooms, func(room RawRoom, _ int) Room {
			return Room{Id: room.RoomId, Rows: room.Rows, Cols: room.Cols, SkipRows: room.SkipRows, SkipCols: room.SkipCols}
		}),
		Restrictions:   rawInput.Restrictions,
		TimeoutSeconds: rawInput.TimeoutSeconds,
	}
	if err := input.Validate(); err != nil {
		return ModelInput{}, err
	}
	return input, nil
}

// Validate checks the preconditions of a seating request
func (input ModelInput) Validate() error {
	students := make(map[int]bool, len(input.Students))
	for _, student := range input.Students {
		if students[student.Id] {
			return errors.Wrapf(ErrInvalidInput, "duplicate student id %d", student.Id)
		}
		students[student.Id] = true

		if student.Exam == "" {
			return errors.Wrapf(ErrInvalidInput, "student %d has no exam", student.Id)
		}
	}

	rooms := make(map[string]bool, len(input.Rooms))
	for _, room := range input.Rooms {
		if room.Id == "" {
			return errors.Wrap(ErrInvalidInput, "room without id")
		}
		if rooms[room.Id] {
			return errors.Wrapf(ErrInvalidInput, "duplicate room id \"%v\"", room.Id)
		}
		rooms[room.Id] = true

		if room.Rows <= 0 || room.Cols <= 0 {
			return errors.Wrapf(ErrInvalidInput, "room \"%v\" must have positive dimensions (got %dx%d)", room.Id, room.Rows, room.Cols)
		}
	}

	if input.TimeoutSeconds < 0 {
		return errors.Wrapf(ErrInvalidInput, "timeout must be positive (got %d)", input.TimeoutSeconds)
	}
	return nil
}

// allowed reports whether students of exam may sit in room
func (restrictions Restrictions) allowed(exam, room string) bool {
	rooms, ok := restrictions[exam]
	return !ok || lo.Contains(rooms, room)
}
