package model

import "github.com/limaJavier/examseating/pkg/sat"

// VariableKey identifies a decision variable: Student (by id) sits in the room with index Room at (Row, Col)
type VariableKey struct {
	Student int
	Room    int
	Row     int
	Col     int
}

// indexer interface is design to give a unique engine variable to a combination of seating attributes and vice versa
type indexer interface {
	// Registers a new decision variable for key
	Add(key VariableKey, variable sat.Var)
	// Returns the variable of key, if it exists
	Index(key VariableKey) (sat.Var, bool)
	// Returns the attributes of a variable
	Attributes(variable sat.Var) (VariableKey, bool)
	// Returns the number of registered keys
	Len() int
}

func newIndexer(capacity int) indexer {
	return &indexerImplementation{
		variables: make(map[VariableKey]sat.Var, capacity),
		keys:      make(map[sat.Var]VariableKey, capacity),
	}
}
