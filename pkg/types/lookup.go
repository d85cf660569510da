package types

// Interpolation method tags reported in LookupMeta.
const (
	MethodExact           = "exact"
	MethodLinear1D        = "linear-1d"
	MethodLinearAtExactP  = "linear-1d-at-exact-P"
	MethodDoubleInterpPT  = "double-interpolation-PT"
	methodLinearUsingPfx  = "linear-1d-at-exact-P-using-"
	methodDoubleInterpPfx = "double-interpolation-P"
)

// MethodLinearAtExactPUsing returns the method tag for a reverse lookup
// answered within a single pressure group.
func MethodLinearAtExactPUsing(key string) string {
	return methodLinearUsingPfx + key
}

// MethodDoubleInterpP returns the method tag for a two-stage reverse lookup
// on key.
func MethodDoubleInterpP(key string) string {
	return methodDoubleInterpPfx + key
}

// LookupMeta describes how a lookup result was produced.
type LookupMeta struct {
	Method string `json:"method"`
	Stages int    `json:"interpolationStages"`
}

// LookupResult holds interpolated property values with a human-readable
// trace of the steps taken. Values only contains properties that were
// finite in every row used.
type LookupResult struct {
	Values map[string]float64 `json:"values"`
	Steps  []string           `json:"steps"`
	Meta   LookupMeta         `json:"meta"`
}

// Value returns the interpolated value of prop and whether it is present.
func (r LookupResult) Value(prop string) (float64, bool) {
	v, ok := r.Values[prop]
	return v, ok && IsFinite(v)
}

// Properties returns the keys of Values in display order.
func (r LookupResult) Properties() []string {
	keys := make([]string, 0, len(r.Values))
	for k := range r.Values {
		keys = append(keys, k)
	}
	return SortProperties(keys)
}
