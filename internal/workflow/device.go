package workflow

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/thermocycle/internal/interp"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Device is a steady-flow work device.
type Device string

// Devices.
const (
	Turbine    Device = "turbine"
	Compressor Device = "compressor"
)

// ParseDevice returns the device named s, ignoring case.
func ParseDevice(s string) (Device, error) {
	switch Device(strings.ToLower(strings.TrimSpace(s))) {
	case Turbine:
		return Turbine, nil
	case Compressor:
		return Compressor, nil
	}
	return "", fmt.Errorf("%w: device must be turbine or compressor, got %q", types.ErrInvalidInput, s)
}

// DeviceInput is an adiabatic device with inlet (T1, P1), outlet pressure
// P2, and isentropic efficiency Eta.
type DeviceInput struct {
	Fluid      string
	UnitSystem string
	Device     Device
	T1, P1     float64
	P2         float64
	Eta        float64
}

// IsentropicDevice computes the isentropic and actual exit enthalpy and
// specific work of a turbine or compressor. The actual exit state is
// recovered from (P2, h2) when the PT table covers it.
func (r *Runner) IsentropicDevice(in DeviceInput) (types.WorkflowResult, error) {
	dev, err := ParseDevice(string(in.Device))
	if err != nil {
		return types.WorkflowResult{}, err
	}
	if err := validate(field{"T1", in.T1}, field{"P1", in.P1}, field{"P2", in.P2}, field{"eta", in.Eta}); err != nil {
		return types.WorkflowResult{}, err
	}
	tbl, err := r.ptTable(in.Fluid, in.UnitSystem)
	if err != nil {
		return types.WorkflowResult{}, err
	}
	if in.Eta <= 0 {
		return types.WorkflowResult{}, fmt.Errorf("%w: isentropic efficiency must be a positive value", types.ErrEfficiencyInvalid)
	}

	inlet, err := interp.InterpolatePT(tbl.Rows, in.P1, in.T1, statePropsPT)
	if err != nil {
		return types.WorkflowResult{}, fmt.Errorf("state 1: %w", err)
	}
	h1, okH := inlet.Value("h")
	s1, okS := inlet.Value("s")
	if !okH || !okS {
		return types.WorkflowResult{}, fmt.Errorf("%w: inlet h and s could not be resolved at state 1", types.ErrInsufficientData)
	}

	exit, err := interp.Reverse(tbl, in.P2, "s", s1, statePropsPT)
	if err != nil {
		return types.WorkflowResult{}, fmt.Errorf("isentropic exit: %w", err)
	}
	h2s, ok := exit.Value("h")
	if !ok {
		return types.WorkflowResult{}, fmt.Errorf("%w: could not resolve isentropic exit enthalpy h2s", types.ErrInsufficientData)
	}

	turbine := dev == Turbine
	var h2, wIs, wActual float64
	if turbine {
		wIs = h1 - h2s
		h2 = h1 - in.Eta*wIs
		wActual = h1 - h2
	} else {
		wIs = h2s - h1
		h2 = h1 + wIs/in.Eta
		wActual = h2 - h1
	}

	rep := &report{}
	rep.step("State 1 from PT lookup at T1=%s, P1=%s -> h1=%s, s1=%s.", fnum(in.T1), fnum(in.P1), fnum(h1), fnum(s1))
	rep.step("Isentropic condition: s2s = s1 = %s at P2=%s.", fnum(s1), fnum(in.P2))
	rep.step("Resolved h2s=%s from reverse lookup (P + s).", fnum(h2s))
	if turbine {
		rep.step("Turbine efficiency: eta_t = (h1-h2)/(h1-h2s), so h2 = h1 - eta_t*(h1-h2s).")
	} else {
		rep.step("Compressor efficiency: eta_c = (h2s-h1)/(h2-h1), so h2 = h1 + (h2s-h1)/eta_c.")
	}
	rep.step("Computed actual exit enthalpy h2=%s.", fnum(h2))

	actual, actualErr := interp.Reverse(tbl, in.P2, "h", h2, statePropsPT)
	note := ""
	if actualErr != nil {
		note = "Actual exit T/s not recovered from table range: " + actualErr.Error()
		rep.steps = append(rep.steps, note)
	} else {
		rep.step("Recovered actual exit state from reverse lookup (P + h).")
	}

	rep.num("h1", h1, "Inlet enthalpy")
	rep.num("s1", s1, "Inlet entropy")
	rep.num("h2s", h2s, "Isentropic exit enthalpy")
	rep.num("h2", h2, "Actual exit enthalpy")
	rep.num("w_is", wIs, "Isentropic specific work")
	rep.num("w_actual", wActual, "Actual specific work")
	rep.num("eta_is", in.Eta, "Input isentropic efficiency")

	var s2 float64
	hasS2 := false
	if actualErr == nil {
		if t2, ok := actual.Value("T"); ok {
			rep.num("T2 actual", t2, "Recovered from P + h lookup")
		}
		if s2, hasS2 = actual.Value("s"); hasS2 {
			rep.num("s2 actual", s2, "Recovered from P + h lookup")
		}
	}
	if note != "" {
		rep.text("State note", note, "Range warning")
		rep.warn(note)
	}

	if in.Eta > 1 {
		rep.warn("Isentropic efficiency greater than 1 is typically non-physical.")
	}
	if turbine && in.P2 >= in.P1 {
		rep.warn("Turbines usually expand, so outlet pressure is expected to be lower than inlet pressure.")
	}
	if !turbine && in.P2 <= in.P1 {
		rep.warn("Compressors usually raise pressure, so outlet pressure is expected to be higher than inlet pressure.")
	}
	if hasS2 && s2 < s1-1e-6 && in.Eta < 1 {
		rep.warn("Entropy decreased across an irreversible device; check inputs and selected tables.")
	}

	return rep.result(IsentropicDevice, fmt.Sprintf("Isentropic %s workflow solved for %s.", dev, in.Fluid)), nil
}

// DeltaInput is a pair of states given by temperature and pressure.
type DeltaInput struct {
	Fluid      string
	UnitSystem string
	T1, P1     float64
	T2, P2     float64
}

// PropertyDelta looks up two PT states and reports property_2 - property_1
// for h, s, u, and v.
func (r *Runner) PropertyDelta(in DeltaInput) (types.WorkflowResult, error) {
	if err := validate(field{"T1", in.T1}, field{"P1", in.P1}, field{"T2", in.T2}, field{"P2", in.P2}); err != nil {
		return types.WorkflowResult{}, err
	}
	tbl, err := r.ptTable(in.Fluid, in.UnitSystem)
	if err != nil {
		return types.WorkflowResult{}, err
	}
	st1, err := interp.InterpolatePT(tbl.Rows, in.P1, in.T1, statePropsPT)
	if err != nil {
		return types.WorkflowResult{}, fmt.Errorf("state 1: %w", err)
	}
	st2, err := interp.InterpolatePT(tbl.Rows, in.P2, in.T2, statePropsPT)
	if err != nil {
		return types.WorkflowResult{}, fmt.Errorf("state 2: %w", err)
	}

	rep := &report{}
	rep.step("State 1 lookup at T1=%s, P1=%s.", fnum(in.T1), fnum(in.P1))
	rep.step("State 2 lookup at T2=%s, P2=%s.", fnum(in.T2), fnum(in.P2))
	rep.step("Compute deltas with Delta(property) = property_2 - property_1.")

	rep.num("h1", optional(st1, "h"), "State 1 enthalpy")
	rep.num("h2", optional(st2, "h"), "State 2 enthalpy")
	for _, k := range []string{"h", "s", "u", "v"} {
		rep.num("Delta "+k, optional(st2, k)-optional(st1, k), k+"2 - "+k+"1")
	}
	return rep.result(PropertyDelta, fmt.Sprintf("Property-change workflow solved for %s.", in.Fluid)), nil
}
