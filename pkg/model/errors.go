package model

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Reason classifies why a seating request produced no assignments. Reasons are errors themselves so failures can be
// matched with errors.Is(err, model.TimedOut)
type Reason string

const (
	InsufficientCapacity Reason = "InsufficientCapacity"
	StudentUnassignable  Reason = "StudentUnassignable"
	SeatsUnmatchable     Reason = "SeatsUnmatchable"
	ProvenInfeasible     Reason = "ProvenInfeasible"
	TimedOut             Reason = "TimedOut"
)

func (reason Reason) Error() string {
	return string(reason)
}

// PreSolve reports whether the reason is detected before the engine is invoked
func (reason Reason) PreSolve() bool {
	return reason == InsufficientCapacity || reason == StudentUnassignable || reason == SeatsUnmatchable
}

// Failure is a seating request that ended without assignments
type Failure struct {
	Reason   Reason
	Message  string
	Students []Student // Offending students, when the reason concerns specific ones
}

func (failure *Failure) Error() string {
	return fmt.Sprintf("%v: %v", failure.Reason, failure.Message)
}

func (failure *Failure) Unwrap() error {
	return failure.Reason
}

// ReasonOf extracts the failure reason carried by err, if any
func ReasonOf(err error) (Reason, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Reason, true
	}
	return "", false
}

// ErrEngineContract signals an engine that reported a valuation which does not seat every student
var ErrEngineContract = errors.New("engine returned an inconsistent valuation")

func insufficientCapacity(students, seats int) *Failure {
	return &Failure{
		Reason:  InsufficientCapacity,
		Message: fmt.Sprintf("%d students cannot fit in %d seats", students, seats),
	}
}

func studentUnassignable(students []Student) *Failure {
	first := students[0]
	message := fmt.Sprintf("student %d (exam \"%v\") has no eligible seat", first.Id, first.Exam)
	if len(students) > 1 {
		message += fmt.Sprintf(" (and %d more: %v)", len(students)-1, describeStudents(students[1:]))
	}
	return &Failure{Reason: StudentUnassignable, Message: message, Students: students}
}

func seatsUnmatchable(students []Student, matched int, total int) *Failure {
	return &Failure{
		Reason:   SeatsUnmatchable,
		Message:  fmt.Sprintf("only %d of %d students can be matched to distinct eligible seats; unmatched: %v", matched, total, describeStudents(students)),
		Students: students,
	}
}

func describeStudents(students []Student) string {
	return strings.Join(lo.Map(students, func(student Student, _ int) string {
		return fmt.Sprintf("%d(%v)", student.Id, student.Exam)
	}), ", ")
}
