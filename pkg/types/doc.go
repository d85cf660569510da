// Package types defines the data model shared by the thermocycle packages:
// property tables and rows, lookup results, cycle state points and metrics,
// solver results, degree-of-freedom status, and the standard errors returned
// by the interpolation, cycle, and solver layers.
package types
