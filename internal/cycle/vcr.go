package cycle

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/thermocycle/internal/interp"
	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// vcr builds a vapor-compression refrigeration cycle on R-134a:
// evaporator outlet, compressor outlet, condenser outlet, valve outlet.
func (m *Model) vcr(in map[string]float64) (built, error) {
	sat, pt, err := m.findPair(
		tables.Query{Mode: types.ModeSatT, Fluid: r134aFluid},
		tables.Query{Mode: types.ModePT, Fluid: r134aFluid},
		"missing SI R-134a tables for refrigeration template",
	)
	if err != nil {
		return built{}, err
	}
	pLow, pHigh := in["pLow"], in["pHigh"]
	etaC, err := efficiency(in, "etaC", "compressor efficiency")
	if err != nil {
		return built{}, err
	}
	superheat := in["superheat"]
	if !(pHigh > pLow) {
		return built{}, fmt.Errorf("%w: for VCR, condenser pressure must be greater than evaporator pressure", types.ErrTopologyInvalid)
	}

	low, err := saturationAt(sat, pLow, []string{"T", "hf", "hfg", "hg", "sf", "sfg", "sg", "vf", "vfg"})
	if err != nil {
		return built{}, err
	}
	high, err := saturationAt(sat, pHigh, []string{"T", "hf", "hg", "sf", "sg"})
	if err != nil {
		return built{}, err
	}
	tLow := value(low, "T")

	st1 := newState()
	st1.T, st1.P = tLow, pLow
	st1.H, st1.S = value(low, "hg"), value(low, "sg")
	st1.X = 1
	st1.Region = types.RegionSaturatedVapor
	if superheat > 1e-9 {
		t1, err := clampTemperature(pt, pLow, tLow+superheat)
		if err != nil {
			return built{}, err
		}
		res, err := interp.InterpolatePT(pt.Rows, pLow, t1, ptProps)
		if err != nil {
			return built{}, err
		}
		st1 = stateFrom(res.Values, pLow, types.RegionSuperheated)
	}

	st2s, err := ptAtPressure(pt, pHigh, "s", st1.S, tLow+math.Max(12, superheat))
	if err != nil {
		return built{}, err
	}
	h2 := st1.H + (st2s.H-st1.H)/etaC
	st2, err := withSaturation(sat, pt, pHigh, "h", h2, st2s.T)
	if err != nil {
		return built{}, err
	}

	st3 := newState()
	st3.T, st3.P = value(high, "T"), pHigh
	st3.H, st3.S = value(high, "hf"), value(high, "sf")
	st3.X = 0
	st3.Region = types.RegionSaturatedLiquid

	st4 := newState()
	st4.T, st4.P, st4.H = tLow, pLow, st3.H
	st4.S = value(low, "sf")
	if hfg := value(low, "hfg"); types.IsFinite(hfg) && math.Abs(hfg) > 1e-12 {
		st4.X = (st4.H - value(low, "hf")) / hfg
		if sfg := value(low, "sfg"); types.IsFinite(sfg) {
			st4.S = value(low, "sf") + st4.X*sfg
		}
		if vfg := value(low, "vfg"); types.IsFinite(vfg) {
			st4.V = value(low, "vf") + st4.X*vfg
		}
	}
	st4.Region = types.RegionSaturatedMixture

	var b built
	labels := []string{"Evaporator outlet", "Compressor outlet", "Condenser outlet", "Valve outlet"}
	for i, st := range []state{st1, st2, st3, st4} {
		b.points = append(b.points, st.point(fmt.Sprint(i+1), labels[i]))
	}

	wcomp := st2.H - st1.H
	qL := st1.H - st4.H
	qH := st2.H - st3.H

	b.metric("wcomp", "Compressor work", "kJ/kg", wcomp)
	b.metric("qL", "Refrigerating effect", "kJ/kg", qL)
	b.metric("qH", "Heat rejected", "kJ/kg", qH)
	b.metric("cop", "COP", "-", types.SafeRatio(qL, wcomp))
	b.metric("eta_c", "eta_c used", "-", etaC)
	if types.IsFinite(st4.X) {
		b.metric("x4", "Valve exit quality", "-", st4.X)
	}
	return b, nil
}
