package model

import "github.com/limaJavier/examseating/pkg/sat"

// roomsObjective counts opened rooms
func roomsObjective(space variableSpace) []sat.Term {
	return sat.Sum(space.usage...)
}
