package cycle

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/thermocycle/internal/interp"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// rankineLayout names the parts of a four-point water power cycle.
type rankineLayout struct {
	missing  string
	topology string
	points   [4]string
	wt, wp   string
	wnet     string
	x4       string
	backWork bool
}

var idealLayout = rankineLayout{
	missing:  "Ideal Rankine",
	topology: "for Rankine, P_high must be greater than P_low",
	points:   [4]string{"Condenser outlet", "Pump outlet", "Turbine inlet", "Turbine outlet"},
	wt:       "Turbine work",
	wp:       "Pump work",
	wnet:     "Net work",
	x4:       "Turbine exit quality",
	backWork: true,
}

var steamLoopLayout = rankineLayout{
	missing:  "steam loop",
	topology: "for steam loop, P_high must be greater than P_low",
	points:   [4]string{"Feedwater", "After pump", "Heated vapor", "Expansion outlet"},
	wt:       "Turbine-side work",
	wp:       "Pump-side work",
	wnet:     "Net specific work",
	x4:       "Expansion exit quality",
}

// pumpState returns the feed pump outlet from the condenser saturated
// liquid, using h2s = hf + vf (P_high - P_low).
func pumpState(sat map[string]float64, pLow, pHigh, etaP float64) state {
	vf := value(sat, "vf")
	if !types.IsFinite(vf) || vf == 0 {
		vf = 0.001
	}
	h1 := value(sat, "hf")
	h2s := h1 + vf*(pHigh-pLow)

	st := newState()
	st.P = pHigh
	st.H = h1 + (h2s-h1)/etaP
	st.S = value(sat, "sf")
	st.T = compressedLiquidTemperature(value(sat, "T"), h1, st.H)
	st.Region = types.RegionCompressedLiquid
	return st
}

// condenserState is saturated liquid at p.
func condenserState(sat map[string]float64, p float64) state {
	st := newState()
	st.T, st.P = value(sat, "T"), p
	st.H, st.S, st.V = value(sat, "hf"), value(sat, "sf"), value(sat, "vf")
	st.X = 0
	st.Region = types.RegionSaturatedLiquid
	return st
}

// heaterOutlet reads the PT state at p and the clamped temperature t.
func heaterOutlet(pt types.Table, p, t float64) (state, error) {
	t, err := clampTemperature(pt, p, t)
	if err != nil {
		return state{}, err
	}
	res, err := interp.InterpolatePT(pt.Rows, p, t, []string{"h", "s", "u", "v"})
	if err != nil {
		return state{}, err
	}
	st := stateFrom(res.Values, p, types.RegionSuperheated)
	st.T = t
	return st, nil
}

// expand runs a turbine from in down to pressure p with efficiency eta.
func expand(sat, pt types.Table, in state, p, eta float64) (state, error) {
	ideal, err := withSaturation(sat, pt, p, "s", in.S, math.NaN())
	if err != nil {
		return state{}, err
	}
	h := in.H - eta*(in.H-ideal.H)
	return withSaturation(sat, pt, p, "h", h, ideal.T)
}

func (m *Model) rankine(in map[string]float64, layout rankineLayout) (built, error) {
	sat, pt, err := m.waterTables(layout.missing)
	if err != nil {
		return built{}, err
	}
	pLow, pHigh := in["pLow"], in["pHigh"]
	etaT, err := efficiency(in, "etaT", "turbine efficiency")
	if err != nil {
		return built{}, err
	}
	etaP, err := efficiency(in, "etaP", "pump efficiency")
	if err != nil {
		return built{}, err
	}
	if !(pHigh > pLow) {
		return built{}, fmt.Errorf("%w: %s", types.ErrTopologyInvalid, layout.topology)
	}

	sv, err := saturationAt(sat, pLow, []string{"T", "vf", "hf", "sf"})
	if err != nil {
		return built{}, err
	}
	st1 := condenserState(sv, pLow)
	st2 := pumpState(sv, pLow, pHigh, etaP)
	st3, err := heaterOutlet(pt, pHigh, in["t3"])
	if err != nil {
		return built{}, err
	}
	st4, err := expand(sat, pt, st3, pLow, etaT)
	if err != nil {
		return built{}, err
	}

	var b built
	for i, st := range []state{st1, st2, st3, st4} {
		b.points = append(b.points, st.point(fmt.Sprint(i+1), layout.points[i]))
	}

	wt := st3.H - st4.H
	wp := st2.H - st1.H
	wnet := wt - wp
	qin := st3.H - st2.H
	qout := st4.H - st1.H

	b.metric("wt", layout.wt, "kJ/kg", wt)
	b.metric("wp", layout.wp, "kJ/kg", wp)
	b.metric("wnet", layout.wnet, "kJ/kg", wnet)
	b.metric("qin", "Heat input", "kJ/kg", qin)
	b.metric("qout", "Heat rejected", "kJ/kg", qout)
	b.metric("eta_th", "Thermal efficiency", "-", types.SafeRatio(wnet, qin))
	if layout.backWork {
		b.metric("bwr", "Back work ratio", "-", types.SafeRatio(wp, wt))
	}
	if types.IsFinite(st4.X) {
		b.metric("x4", layout.x4, "-", st4.X)
	}
	b.metric("eta_t", "eta_t used", "-", etaT)
	b.metric("eta_p", "eta_p used", "-", etaP)
	return b, nil
}

func (m *Model) rankineReheat(in map[string]float64) (built, error) {
	sat, pt, err := m.waterTables("Rankine reheat")
	if err != nil {
		return built{}, err
	}
	pLow, pMid, pHigh := in["pLow"], in["pMid"], in["pHigh"]
	etaHP, err := efficiency(in, "etaTHP", "HP turbine efficiency")
	if err != nil {
		return built{}, err
	}
	etaLP, err := efficiency(in, "etaTLP", "LP turbine efficiency")
	if err != nil {
		return built{}, err
	}
	etaP, err := efficiency(in, "etaP", "pump efficiency")
	if err != nil {
		return built{}, err
	}
	if !(pHigh > pMid && pMid > pLow) {
		return built{}, fmt.Errorf("%w: for reheat Rankine, pressures must satisfy P_high > P_mid > P_low", types.ErrTopologyInvalid)
	}

	sv, err := saturationAt(sat, pLow, []string{"T", "vf", "hf", "sf"})
	if err != nil {
		return built{}, err
	}
	st1 := condenserState(sv, pLow)
	st2 := pumpState(sv, pLow, pHigh, etaP)
	st3, err := heaterOutlet(pt, pHigh, in["t3"])
	if err != nil {
		return built{}, err
	}
	st4, err := expand(sat, pt, st3, pMid, etaHP)
	if err != nil {
		return built{}, err
	}
	st5, err := heaterOutlet(pt, pMid, in["t5"])
	if err != nil {
		return built{}, err
	}
	st6, err := expand(sat, pt, st5, pLow, etaLP)
	if err != nil {
		return built{}, err
	}

	labels := []string{"Condenser outlet", "Pump outlet", "HP turbine inlet", "After HP expansion", "After reheat", "LP turbine outlet"}
	var b built
	for i, st := range []state{st1, st2, st3, st4, st5, st6} {
		b.points = append(b.points, st.point(fmt.Sprint(i+1), labels[i]))
	}

	wt := (st3.H - st4.H) + (st5.H - st6.H)
	wp := st2.H - st1.H
	qin := (st3.H - st2.H) + (st5.H - st4.H)
	wnet := wt - wp
	qout := st6.H - st1.H

	b.metric("wt", "Turbine work", "kJ/kg", wt)
	b.metric("wp", "Pump work", "kJ/kg", wp)
	b.metric("wnet", "Net work", "kJ/kg", wnet)
	b.metric("qin", "Heat input", "kJ/kg", qin)
	b.metric("qout", "Heat rejected", "kJ/kg", qout)
	b.metric("eta_th", "Thermal efficiency", "-", types.SafeRatio(wnet, qin))
	b.metric("bwr", "Back work ratio", "-", types.SafeRatio(wp, wt))
	if types.IsFinite(st6.X) {
		b.metric("x6", "LP turbine exit quality", "-", st6.X)
	}
	b.metric("eta_t_hp", "eta_t,HP used", "-", etaHP)
	b.metric("eta_t_lp", "eta_t,LP used", "-", etaLP)
	b.metric("eta_p", "eta_p used", "-", etaP)
	return b, nil
}
