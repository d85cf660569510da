package cycle

import (
	"fmt"

	"github.com/mesh-intelligence/thermocycle/internal/tables"
	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Fallback temperatures for Brayton reverse lookups that leave the table.
const (
	braytonCompressorFallbackT = 500
	braytonTurbineFallbackT    = 650
)

// brayton builds an open gas-turbine cycle on the nitrogen PT table.
func (m *Model) brayton(in map[string]float64) (built, error) {
	gas, err := m.store.Find(tables.Query{Mode: types.ModePT, Fluid: nitrogenFluid})
	if err != nil {
		return built{}, fmt.Errorf("%w: missing SI Nitrogen PT table for Brayton template", types.ErrMissingTable)
	}
	pLow, pHigh := in["pLow"], in["pHigh"]
	etaC, err := efficiency(in, "etaC", "compressor efficiency")
	if err != nil {
		return built{}, err
	}
	etaT, err := efficiency(in, "etaT", "turbine efficiency")
	if err != nil {
		return built{}, err
	}
	if !(pHigh > pLow) {
		return built{}, fmt.Errorf("%w: for Brayton, P_high must be greater than P_low", types.ErrTopologyInvalid)
	}

	st1, err := heaterOutlet(gas, pLow, in["t1"])
	if err != nil {
		return built{}, err
	}
	st1.Region = types.RegionSinglePhase
	st2s, err := ptAtPressure(gas, pHigh, "s", st1.S, braytonCompressorFallbackT)
	if err != nil {
		return built{}, err
	}
	st2, err := ptAtPressure(gas, pHigh, "h", st1.H+(st2s.H-st1.H)/etaC, st2s.T)
	if err != nil {
		return built{}, err
	}

	st3, err := heaterOutlet(gas, pHigh, in["t3"])
	if err != nil {
		return built{}, err
	}
	st3.Region = types.RegionSinglePhase
	st4s, err := ptAtPressure(gas, pLow, "s", st3.S, braytonTurbineFallbackT)
	if err != nil {
		return built{}, err
	}
	st4, err := ptAtPressure(gas, pLow, "h", st3.H-etaT*(st3.H-st4s.H), st4s.T)
	if err != nil {
		return built{}, err
	}

	var b built
	labels := []string{"Compressor inlet", "Compressor outlet", "Turbine inlet", "Turbine outlet"}
	for i, st := range []state{st1, st2, st3, st4} {
		b.points = append(b.points, st.point(fmt.Sprint(i+1), labels[i]))
	}

	wcomp := st2.H - st1.H
	wt := st3.H - st4.H
	wnet := wt - wcomp
	qin := st3.H - st2.H

	b.metric("wcomp", "Compressor work", "kJ/kg", wcomp)
	b.metric("wt", "Turbine work", "kJ/kg", wt)
	b.metric("wnet", "Net work", "kJ/kg", wnet)
	b.metric("pressure_ratio", "Pressure ratio", "-", types.SafeRatio(pHigh, pLow))
	b.metric("eta_th", "Thermal efficiency", "-", types.SafeRatio(wnet, qin))
	b.metric("eta_c", "eta_c used", "-", etaC)
	b.metric("eta_t", "eta_t used", "-", etaT)
	return b, nil
}
