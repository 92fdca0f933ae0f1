package sat

import (
	"fmt"
	"strings"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// cnfEncoding compiles a model with unit coefficients into a circuit: short constraints become plain clauses, longer
// ones a unit clause over a cardinality sorting network. The objective gets its own sorting network so cost bounds can
// be assumed (or asserted) as a single literal
type cnfEncoding struct {
	c       *logic.C
	lits    []z.Lit // lits[v-1] is the literal of model variable v
	clauses [][]z.Lit
	cost    *logic.CardSort // nil without objective
	offset  int             // objective = offset + number of true literals counted by cost
}

func newCnfEncoding(model *Model) (*cnfEncoding, error) {
	encoding := &cnfEncoding{
		c:    logic.NewCCap(2 * (model.Variables + 1)),
		lits: make([]z.Lit, model.Variables),
	}
	for i := range encoding.lits {
		encoding.lits[i] = encoding.c.Lit()
	}
	for _, constraint := range model.Constraints {
		if err := encoding.add(constraint); err != nil {
			return nil, err
		}
	}

	objective, offset, err := encoding.normalize(model.Objective)
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode objective")
	}
	if len(objective) > 0 {
		encoding.cost = encoding.c.CardSort(objective)
		encoding.offset = offset
	}
	return encoding, nil
}

// costAtMost is a literal that holds when the objective does not exceed bound
func (encoding *cnfEncoding) costAtMost(bound int) z.Lit {
	return encoding.cost.Leq(bound - encoding.offset)
}

// toCnf teaches dst every clause of the encoding
func (encoding *cnfEncoding) toCnf(dst inter.Adder) {
	encoding.c.ToCnf(dst)
	for _, clause := range encoding.clauses {
		for _, m := range clause {
			dst.Add(m)
		}
		dst.Add(z.LitNull)
	}
}

// values reads the model variables back from an engine valuation
func (encoding *cnfEncoding) values(value func(m z.Lit) bool) []bool {
	values := make([]bool, len(encoding.lits))
	for i, m := range encoding.lits {
		values[i] = value(m)
	}
	return values
}

// normalize turns terms into literals counted with weight one. A term -x is rewritten as (not x) - 1, so the returned
// offset has to be added to the count of true literals to recover the sum
func (encoding *cnfEncoding) normalize(terms []Term) ([]z.Lit, int, error) {
	lits := make([]z.Lit, 0, len(terms))
	offset := 0
	for _, term := range terms {
		if int(term.Var) < 1 || int(term.Var) > len(encoding.lits) {
			return nil, 0, errors.Errorf("variable x%d is out of range", term.Var)
		}
		m := encoding.lits[term.Var-1]
		switch term.Coefficient {
		case 0:
		case 1:
			lits = append(lits, m)
		case -1:
			lits = append(lits, m.Not())
			offset--
		default:
			return nil, 0, errors.Errorf("coefficient %d of x%d is not supported (only -1, 0 and 1)", term.Coefficient, term.Var)
		}
	}
	return lits, offset, nil
}

func (encoding *cnfEncoding) add(constraint Constraint) error {
	ms, offset, err := encoding.normalize(constraint.Terms)
	if err != nil {
		return errors.Wrapf(err, "cannot encode constraint %v %d", constraint.Operator, constraint.Bound)
	}
	bound := constraint.Bound - offset

	switch constraint.Operator {
	case LessOrEqual:
		encoding.atMost(ms, bound)
	case GreaterOrEqual:
		encoding.atLeast(ms, bound)
	case Equal:
		encoding.atMost(ms, bound)
		encoding.atLeast(ms, bound)
	}
	return nil
}

func (encoding *cnfEncoding) atMost(ms []z.Lit, k int) {
	switch {
	case k >= len(ms):
	case k < 0:
		encoding.clauses = append(encoding.clauses, []z.Lit{encoding.c.F})
	case k == 0:
		for _, m := range ms {
			encoding.clauses = append(encoding.clauses, []z.Lit{m.Not()})
		}
	case k == 1 && len(ms) == 2:
		encoding.clauses = append(encoding.clauses, []z.Lit{ms[0].Not(), ms[1].Not()})
	default:
		encoding.clauses = append(encoding.clauses, []z.Lit{encoding.c.CardSort(ms).Leq(k)})
	}
}

func (encoding *cnfEncoding) atLeast(ms []z.Lit, k int) {
	switch {
	case k <= 0:
	case k > len(ms):
		encoding.clauses = append(encoding.clauses, []z.Lit{encoding.c.F})
	case k == len(ms):
		for _, m := range ms {
			encoding.clauses = append(encoding.clauses, []z.Lit{m})
		}
	case k == 1:
		encoding.clauses = append(encoding.clauses, append([]z.Lit{}, ms...))
	default:
		encoding.clauses = append(encoding.clauses, []z.Lit{encoding.c.CardSort(ms).Geq(k)})
	}
}

// dimacs collects clauses taught through inter.Adder and renders them in DIMACS-CNF
type dimacs struct {
	variables int
	clauses   [][]int
	current   []int
}

func (d *dimacs) Add(m z.Lit) {
	if m == z.LitNull {
		d.clauses = append(d.clauses, d.current)
		d.current = nil
		return
	}
	d.current = append(d.current, dimacsOf(m))
	if v := int(m.Var()); v > d.variables {
		d.variables = v
	}
}

// render writes the clauses plus any extra unit clauses
func (d *dimacs) render(units ...z.Lit) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", d.variables, len(d.clauses)+len(units))
	for _, clause := range d.clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	for _, unit := range units {
		fmt.Fprintf(&builder, "%d 0\n", dimacsOf(unit))
	}
	return builder.String()
}

func dimacsOf(m z.Lit) int {
	if m.IsPos() {
		return int(m.Var())
	}
	return -int(m.Var())
}
