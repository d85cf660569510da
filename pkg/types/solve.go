package types

// InputKind classifies a cycle input for search-bound defaults.
type InputKind int

// Input kinds.
const (
	InputOther InputKind = iota
	InputEfficiency
	InputPressure
	InputTemperature
)

// String returns the lower-case name of the kind.
func (k InputKind) String() string {
	switch k {
	case InputEfficiency:
		return "efficiency"
	case InputPressure:
		return "pressure"
	case InputTemperature:
		return "temperature"
	default:
		return "other"
	}
}

// SolveResult is the outcome of an inverse solve.
type SolveResult struct {
	Unknowns    map[string]float64 `json:"unknowns"`
	Metrics     map[string]float64 `json:"metrics"`
	Residuals   map[string]float64 `json:"residuals"`
	Inputs      map[string]float64 `json:"inputs"`
	Objective   float64            `json:"objective,omitempty"`
	Iterations  int                `json:"iterations"`
	Evaluations int                `json:"evaluations"`
	Bracketed   bool               `json:"bracketed"`
	Converged   bool               `json:"converged"`
}

// DOFKind is the severity of a degree-of-freedom check.
type DOFKind string

// DOF status kinds.
const (
	DOFOK    DOFKind = "ok"
	DOFWarn  DOFKind = "warn"
	DOFError DOFKind = "error"
)

// DOFStatus reports whether an inverse problem is well-posed.
type DOFStatus struct {
	CanSolve      bool    `json:"canSolve"`
	Kind          DOFKind `json:"kind"`
	Message       string  `json:"message"`
	UnknownCount  int     `json:"unknownCount"`
	EquationCount int     `json:"equationCount"`
}
