package solver

import (
	"fmt"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Selection is the raw state of an inverse problem before solving. Empty
// keys mean "none". A nil value means the target value was not entered; a
// non-finite value means it was entered but is not a number.
type Selection struct {
	Unknown1, Unknown2 string
	Target1, Target2   string
	Value1, Value2     *float64
}

// CheckDOF reports whether sel describes a well-posed problem: one or two
// distinct unknowns matched by the same number of distinct, fully specified
// target equations. It never solves.
func CheckDOF(sel Selection) types.DOFStatus {
	fail := func(kind types.DOFKind, msg string, unknowns, equations int) types.DOFStatus {
		return types.DOFStatus{Kind: kind, Message: msg, UnknownCount: unknowns, EquationCount: equations}
	}

	if sel.Value1 != nil && !types.IsFinite(*sel.Value1) {
		return fail(types.DOFError, "Target value #1 must be numeric.", 0, 0)
	}
	if sel.Value2 != nil && !types.IsFinite(*sel.Value2) {
		return fail(types.DOFError, "Target value #2 must be numeric.", 0, 0)
	}

	unknowns := 0
	if sel.Unknown1 != "" {
		unknowns++
	}
	if sel.Unknown2 != "" {
		unknowns++
	}

	if sel.Unknown1 == "" {
		return fail(types.DOFWarn, "Select unknown input #1.", unknowns, 0)
	}
	if sel.Unknown2 != "" && sel.Unknown2 == sel.Unknown1 {
		return fail(types.DOFWarn, "Unknown inputs must be different.", unknowns, 0)
	}
	if sel.Target1 == "" {
		return fail(types.DOFWarn, "Select target metric #1.", unknowns, 0)
	}
	if sel.Value1 == nil {
		return fail(types.DOFWarn, "Enter target value #1.", unknowns, 0)
	}

	second := sel.Target2 != "" || sel.Value2 != nil
	if second {
		if sel.Target2 == "" {
			return fail(types.DOFWarn, "Choose target metric #2 or clear target value #2.", unknowns, 1)
		}
		if sel.Value2 == nil {
			return fail(types.DOFWarn, "Enter target value #2 for the second equation.", unknowns, 1)
		}
	}
	if sel.Target2 != "" && sel.Target2 == sel.Target1 {
		return fail(types.DOFWarn, "Target metrics must be different.", unknowns, 1)
	}

	equations := 1
	if second {
		equations = 2
	}
	if unknowns != equations {
		return fail(types.DOFWarn, fmt.Sprintf("DOF mismatch: %d unknown(s), %d equation(s).", unknowns, equations), unknowns, equations)
	}

	return types.DOFStatus{
		CanSolve:      true,
		Kind:          types.DOFOK,
		Message:       fmt.Sprintf("DOF balanced: %d unknown(s), %d equation(s). Ready to solve.", unknowns, equations),
		UnknownCount:  unknowns,
		EquationCount: equations,
	}
}

// Err returns nil for a solvable status and an ErrDOFMismatch wrapping the
// status message otherwise.
func Err(st types.DOFStatus) error {
	if st.CanSolve {
		return nil
	}
	return fmt.Errorf("%w: %s", types.ErrDOFMismatch, st.Message)
}

// Problem builds the problem sel describes. Callers supply the unknown
// specs by key so bounds and defaults come from the template schema.
func (sel Selection) Problem(eval Evaluator, known map[string]float64, unknown func(key string) Unknown) (Problem, error) {
	if err := Err(CheckDOF(sel)); err != nil {
		return Problem{}, err
	}
	p := Problem{Evaluator: eval, Known: known}
	p.Unknowns = append(p.Unknowns, unknown(sel.Unknown1))
	p.Targets = append(p.Targets, Target{Key: sel.Target1, Value: *sel.Value1})
	if sel.Unknown2 != "" {
		p.Unknowns = append(p.Unknowns, unknown(sel.Unknown2))
		p.Targets = append(p.Targets, Target{Key: sel.Target2, Value: *sel.Value2})
	}
	return p, nil
}
