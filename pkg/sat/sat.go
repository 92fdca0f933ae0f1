package sat

import (
	"fmt"
	"strings"
)

// Var identifies a boolean decision variable. Variables are numbered from 1, as in DIMACS and OPB
type Var int

type Operator int

const (
	LessOrEqual Operator = iota
	Equal
	GreaterOrEqual
)

func (op Operator) String() string {
	switch op {
	case LessOrEqual:
		return "<="
	case Equal:
		return "="
	case GreaterOrEqual:
		return ">="
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

type Term struct {
	Var         Var
	Coefficient int
}

// Constraint is the linear relation: sum(Coefficient * Var) Operator Bound
type Constraint struct {
	Terms    []Term
	Operator Operator
	Bound    int
}

// Model is a pseudo-boolean instance: boolean variables, linear constraints over them and an optional linear objective to minimize
type Model struct {
	Variables   int
	Constraints []Constraint
	Objective   []Term
}

func NewModel() *Model {
	return &Model{}
}

func (model *Model) NewVar() Var {
	model.Variables++
	return Var(model.Variables)
}

func (model *Model) AddConstraint(terms []Term, op Operator, bound int) {
	model.Constraints = append(model.Constraints, Constraint{Terms: terms, Operator: op, Bound: bound})
}

// AddSum adds the constraint: sum(vars) Operator bound
func (model *Model) AddSum(vars []Var, op Operator, bound int) {
	model.AddConstraint(Sum(vars...), op, bound)
}

// AddImplication adds "from <= to", i.e. from being true forces to to be true
func (model *Model) AddImplication(from, to Var) {
	model.AddConstraint([]Term{{Var: from, Coefficient: 1}, {Var: to, Coefficient: -1}}, LessOrEqual, 0)
}

func (model *Model) Minimize(terms ...Term) {
	model.Objective = terms
}

func (model *Model) HasObjective() bool {
	return len(model.Objective) > 0
}

// Sum returns unit-coefficient terms for vars
func Sum(vars ...Var) []Term {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coefficient: 1}
	}
	return terms
}

// Cost evaluates the objective under values, where values[i] holds the value of variable i+1
func (model *Model) Cost(values []bool) int {
	cost := 0
	for _, term := range model.Objective {
		if valueOf(values, term.Var) {
			cost += term.Coefficient
		}
	}
	return cost
}

// LowerBound is the smallest value the objective can take under any valuation
func (model *Model) LowerBound() int {
	bound := 0
	for _, term := range model.Objective {
		if term.Coefficient < 0 {
			bound += term.Coefficient
		}
	}
	return bound
}

// Satisfied checks whether values satisfy every constraint of the model
func (model *Model) Satisfied(values []bool) bool {
	for _, constraint := range model.Constraints {
		sum := 0
		for _, term := range constraint.Terms {
			if valueOf(values, term.Var) {
				sum += term.Coefficient
			}
		}
		switch constraint.Operator {
		case LessOrEqual:
			if sum > constraint.Bound {
				return false
			}
		case Equal:
			if sum != constraint.Bound {
				return false
			}
		case GreaterOrEqual:
			if sum < constraint.Bound {
				return false
			}
		}
	}
	return true
}

// ToOPB renders the model in the OPB format used by pseudo-boolean solvers
func (model *Model) ToOPB() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "* #variable= %d #constraint= %d\n", model.Variables, len(model.Constraints))
	if model.HasObjective() {
		builder.WriteString("min:")
		writeTerms(&builder, model.Objective)
		builder.WriteString(" ;\n")
	}
	for _, constraint := range model.Constraints {
		writeTerms(&builder, constraint.Terms)
		fmt.Fprintf(&builder, " %v %d ;\n", constraint.Operator, constraint.Bound)
	}
	return builder.String()
}

func writeTerms(builder *strings.Builder, terms []Term) {
	for _, term := range terms {
		fmt.Fprintf(builder, " %+d x%d", term.Coefficient, term.Var)
	}
}

func valueOf(values []bool, v Var) bool {
	index := int(v) - 1
	return index >= 0 && index < len(values) && values[index]
}
