package repository

import (
	"context"
	"sync"
	"time"

	"github.com/limaJavier/examseating/pkg/model"
	"github.com/samber/lo"
)

// memoryAssignmentRepository keeps records in process. It backs the service when no database is configured
type memoryAssignmentRepository struct {
	mutex   sync.RWMutex
	records []Record
	now     func() time.Time
}

func NewMemoryAssignmentRepository() AssignmentRepository {
	return &memoryAssignmentRepository{now: time.Now}
}

func (repository *memoryAssignmentRepository) Save(_ context.Context, runId string, assignments []model.Assignment, students []model.Student) error {
	exams := examsOf(students)
	createdAt := repository.now().UTC()

	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	for _, assignment := range assignments {
		repository.records = append(repository.records, Record{
			Id:        int64(len(repository.records) + 1),
			RunId:     runId,
			StudentId: assignment.StudentId,
			Exam:      exams[assignment.StudentId],
			RoomId:    assignment.RoomId,
			Row:       assignment.Row,
			Col:       assignment.Col,
			CreatedAt: createdAt,
		})
	}
	return nil
}

func (repository *memoryAssignmentRepository) List(_ context.Context, skip, limit int) ([]Record, error) {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()
	if skip >= len(repository.records) {
		return []Record{}, nil
	}
	return append([]Record{}, repository.records[skip:min(skip+limit, len(repository.records))]...), nil
}

func (repository *memoryAssignmentRepository) ByStudent(_ context.Context, studentId int) ([]Record, error) {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()
	return lo.Filter(repository.records, func(record Record, _ int) bool {
		return record.StudentId == studentId
	}), nil
}
