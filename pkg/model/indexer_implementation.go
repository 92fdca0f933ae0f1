package model

import (
	"log"

	"github.com/limaJavier/examseating/pkg/sat"
)

type indexerImplementation struct {
	variables map[VariableKey]sat.Var
	keys      map[sat.Var]VariableKey
}

func (indexer *indexerImplementation) Add(key VariableKey, variable sat.Var) {
	if _, ok := indexer.variables[key]; ok {
		log.Panicf("variable %+v must be added only once", key)
	}
	indexer.variables[key] = variable
	indexer.keys[variable] = key
}

func (indexer *indexerImplementation) Index(key VariableKey) (sat.Var, bool) {
	variable, ok := indexer.variables[key]
	return variable, ok
}

func (indexer *indexerImplementation) Attributes(variable sat.Var) (VariableKey, bool) {
	key, ok := indexer.keys[variable]
	return key, ok
}

func (indexer *indexerImplementation) Len() int {
	return len(indexer.variables)
}
