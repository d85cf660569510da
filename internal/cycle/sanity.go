package cycle

import (
	"fmt"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// entropyTol absorbs interpolation noise on isentropic steps.
const entropyTol = 1e-6

func (b built) value(key string) (float64, bool) {
	for _, m := range b.metrics {
		if m.Key == key {
			return m.Value, types.IsFinite(m.Value)
		}
	}
	return 0, false
}

// entropyDrop reports whether entropy falls from point i to point j.
func (b built) entropyDrop(i, j int) bool {
	if i >= len(b.points) || j >= len(b.points) {
		return false
	}
	si, sj := b.points[i].S, b.points[j].S
	return types.IsFinite(si) && types.IsFinite(sj) && sj < si-entropyTol
}

// sanityWarnings flags results that are computable but physically doubtful.
// Warnings never fail a build.
func sanityWarnings(tpl Template, in map[string]float64, b built) []string {
	warnings := []string{}

	for _, p := range b.points {
		if x, ok := p.Quality(); ok && (x < 0 || x > 1) {
			warnings = append(warnings, fmt.Sprintf("Point %s: quality x=%s is outside 0..1.", p.ID, types.FormatNumber(x)))
		}
	}

	if eta, ok := b.value("eta_th"); ok && (eta <= 0 || eta >= 1.2) {
		warnings = append(warnings, fmt.Sprintf("Thermal efficiency %s looks outside a typical range.", types.FormatNumber(eta)))
	}

	turbineCheck := func(inlet, outlet int, etaKey string) {
		if in[etaKey] < 1 && b.entropyDrop(inlet, outlet) {
			warnings = append(warnings, fmt.Sprintf("Turbine outlet entropy at point %s is lower than inlet entropy; check efficiency and data range.", b.points[outlet].ID))
		}
	}

	switch tpl {
	case RankineIdeal, RankineReheat, SteamLoop:
		if wt, ok := b.value("wt"); ok && wt <= 0 {
			warnings = append(warnings, "Turbine-side work is non-positive; check pressures/temperatures.")
		}
		if wp, ok := b.value("wp"); ok && wp <= 0 {
			warnings = append(warnings, "Pump work is non-positive; check P_high and P_low inputs.")
		}
		if tpl == RankineReheat {
			turbineCheck(2, 3, "etaTHP")
			turbineCheck(4, 5, "etaTLP")
		} else {
			turbineCheck(2, 3, "etaT")
		}

	case VCR:
		if w, ok := b.value("wcomp"); ok && w <= 0 {
			warnings = append(warnings, "Compressor work is non-positive; this is physically unlikely for standard VCR operation.")
		}
		if cop, ok := b.value("cop"); ok && cop <= 0 {
			warnings = append(warnings, "COP is non-positive; check state points and pressures.")
		}
		if b.entropyDrop(0, 1) {
			warnings = append(warnings, "Compressor outlet entropy is lower than inlet entropy; verify compressor model assumptions.")
		}

	case Brayton:
		if wt, ok := b.value("wt"); ok && wt <= 0 {
			warnings = append(warnings, "Turbine work is non-positive; check turbine inlet temperature and pressure ratio.")
		}
		if w, ok := b.value("wcomp"); ok && w <= 0 {
			warnings = append(warnings, "Compressor work is non-positive; check compressor inlet state and pressure ratio.")
		}
		if r, ok := b.value("pressure_ratio"); ok && r <= 1 {
			warnings = append(warnings, "Pressure ratio should be greater than 1 for a Brayton compressor stage.")
		}
		if w, ok := b.value("wnet"); ok && w <= 0 {
			warnings = append(warnings, "Net work is non-positive; cycle may be operating as a net consumer, not a power cycle.")
		}
		if b.entropyDrop(0, 1) {
			warnings = append(warnings, "Compressor outlet entropy is lower than inlet entropy; check data range and assumptions.")
		}
		turbineCheck(2, 3, "etaT")
	}

	return warnings
}
