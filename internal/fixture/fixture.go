// Package fixture provides small reference property tables for tests:
// saturated and superheated water, saturated and superheated R-134a, and an
// ideal-gas nitrogen PT table.
package fixture

import (
	"math"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// Table IDs.
const (
	WaterSatPID   = "water-sat-p"
	WaterSatTID   = "water-sat-t"
	WaterSuperID  = "water-superheated"
	R134aSatTID   = "r134a-sat-t"
	R134aSuperID  = "r134a-superheated"
	NitrogenPTID  = "nitrogen-pt"
	waterFluid    = "Water"
	r134aFluid    = "R-134a"
	nitrogenFluid = "Nitrogen"
)

var satProps = []string{"P", "T", "vf", "vfg", "vg", "uf", "ufg", "ug", "hf", "hfg", "hg", "sf", "sfg", "sg"}

var ptProps = []string{"P", "T", "v", "u", "h", "s"}

// waterSat holds P, T, vf, vg, uf, ufg, ug, hf, hfg, hg, sf, sfg, sg.
var waterSat = [][13]float64{
	{10, 45.81, 0.001010, 14.670, 191.79, 2245.4, 2437.2, 191.81, 2392.1, 2583.9, 0.6492, 7.4996, 8.1488},
	{20, 60.06, 0.001017, 7.6481, 251.40, 2204.6, 2456.0, 251.42, 2357.5, 2608.9, 0.8320, 7.0752, 7.9073},
	{50, 81.32, 0.001030, 3.2403, 340.40, 2142.7, 2483.2, 340.54, 2304.7, 2645.2, 1.0912, 6.5019, 7.5931},
	{100, 99.61, 0.001043, 1.6941, 417.40, 2088.2, 2505.6, 417.51, 2257.5, 2675.0, 1.3028, 6.0562, 7.3589},
	{500, 151.83, 0.001093, 0.37483, 639.54, 1921.2, 2560.7, 640.09, 2108.0, 2748.1, 1.8604, 4.9603, 6.8207},
	{1000, 179.88, 0.001127, 0.19436, 761.39, 1821.4, 2582.8, 762.51, 2014.6, 2777.1, 2.1381, 4.4470, 6.5850},
	{2000, 212.38, 0.001177, 0.09959, 906.12, 1693.0, 2599.1, 908.47, 1889.8, 2798.3, 2.4467, 3.8923, 6.3390},
	{5000, 263.94, 0.001286, 0.03945, 1148.1, 1449.0, 2597.0, 1154.5, 1639.7, 2794.2, 2.9207, 3.0530, 5.9737},
	{8000, 295.01, 0.001385, 0.02353, 1316.1, 1260.4, 2576.5, 1317.1, 1441.6, 2758.7, 3.2081, 2.5369, 5.7450},
	{10000, 311.00, 0.001453, 0.01803, 1393.3, 1151.8, 2545.2, 1407.8, 1317.6, 2725.5, 3.3606, 2.2160, 5.6160},
}

// waterSuper holds P, T, v, u, h, s.
var waterSuper = [][6]float64{
	{10, 50, 14.867, 2443.3, 2592.0, 8.1741},
	{10, 100, 17.196, 2515.5, 2687.5, 8.4489},
	{10, 150, 19.513, 2587.9, 2783.0, 8.6893},
	{10, 200, 21.826, 2661.4, 2879.6, 8.9049},
	{10, 300, 26.446, 2812.3, 3076.7, 9.2827},
	{10, 400, 31.063, 2969.3, 3280.0, 9.6094},
	{10, 500, 35.680, 3132.9, 3489.7, 9.8998},
	{2000, 212.38, 0.09959, 2599.1, 2798.3, 6.3390},
	{2000, 250, 0.11150, 2680.3, 2903.3, 6.5475},
	{2000, 300, 0.12551, 2773.2, 3024.2, 6.7684},
	{2000, 350, 0.13860, 2860.5, 3137.7, 6.9583},
	{2000, 400, 0.15122, 2945.9, 3248.4, 7.1292},
	{2000, 450, 0.16354, 3030.9, 3358.0, 7.2866},
	{2000, 500, 0.17568, 3116.9, 3468.3, 7.4337},
	{2000, 600, 0.19960, 3291.5, 3690.7, 7.7043},
	{5000, 263.94, 0.03945, 2597.0, 2794.2, 5.9737},
	{5000, 300, 0.04536, 2699.0, 2925.7, 6.2110},
	{5000, 350, 0.05197, 2809.5, 3069.3, 6.4516},
	{5000, 400, 0.05784, 2907.5, 3196.7, 6.6483},
	{5000, 450, 0.06332, 3000.6, 3317.2, 6.8210},
	{5000, 500, 0.06858, 3091.8, 3434.7, 6.9781},
	{6000, 300, 0.036189, 2668.4, 2885.6, 6.0703},
	{6000, 350, 0.042251, 2790.4, 3043.9, 6.3357},
	{6000, 400, 0.047419, 2893.7, 3178.3, 6.5432},
	{6000, 450, 0.052166, 2989.9, 3302.9, 6.7219},
	{6000, 500, 0.056671, 3083.1, 3423.1, 6.8826},
	{6000, 550, 0.061021, 3175.2, 3541.3, 7.0308},
	{6000, 600, 0.065265, 3267.2, 3658.8, 7.1693},
	{8000, 295.01, 0.02353, 2576.5, 2758.7, 5.7450},
	{8000, 300, 0.024280, 2591.3, 2785.6, 5.7937},
	{8000, 350, 0.029978, 2748.3, 2988.1, 6.1321},
	{8000, 400, 0.034344, 2864.6, 3139.4, 6.3658},
	{8000, 450, 0.038194, 2967.8, 3273.3, 6.5579},
	{8000, 500, 0.041767, 3065.4, 3399.5, 6.7266},
	{8000, 550, 0.045172, 3160.5, 3521.8, 6.8800},
	{8000, 600, 0.048463, 3254.7, 3642.4, 7.0221},
	{10000, 325, 0.019877, 2611.6, 2810.3, 5.7596},
	{10000, 350, 0.022440, 2699.6, 2924.0, 5.9460},
	{10000, 400, 0.026436, 2833.1, 3097.5, 6.2141},
	{10000, 450, 0.029782, 2944.5, 3242.4, 6.4219},
	{10000, 500, 0.032811, 3047.0, 3375.1, 6.5995},
	{10000, 550, 0.035655, 3145.4, 3502.0, 6.7585},
	{10000, 600, 0.038378, 3242.0, 3625.8, 6.9045},
}

// r134aSat holds T, P, vf, vg, hf, hfg, sf, sfg.
var r134aSat = [][8]float64{
	{-20, 132.82, 0.0007362, 0.14729, 25.49, 212.91, 0.10463, 0.84119},
	{-10, 200.74, 0.0007535, 0.09921, 38.55, 205.96, 0.15504, 0.78316},
	{0, 293.01, 0.0007723, 0.06931, 51.63, 198.60, 0.20439, 0.72701},
	{10, 415.28, 0.0007930, 0.04945, 65.43, 190.73, 0.25286, 0.67356},
	{20, 572.07, 0.0008160, 0.03600, 79.32, 182.27, 0.30063, 0.62172},
	{30, 770.64, 0.0008421, 0.02664, 93.58, 173.08, 0.34789, 0.57135},
	{40, 1017.1, 0.0008720, 0.01995, 108.26, 163.00, 0.39486, 0.52051},
}

// r134aSuper holds P, T, v, u, h, s.
var r134aSuper = [][6]float64{
	{800, 31.31, 0.025621, 246.79, 267.29, 0.91835},
	{800, 40, 0.027035, 254.82, 276.45, 0.94798},
	{800, 50, 0.028547, 263.86, 286.69, 0.98020},
	{800, 60, 0.029973, 272.83, 296.81, 1.01110},
	{800, 70, 0.031340, 281.81, 306.88, 1.04098},
	{800, 80, 0.032659, 290.84, 316.97, 1.07002},
	{1000, 39.37, 0.020313, 250.68, 270.99, 0.91558},
	{1000, 40, 0.020406, 251.30, 271.71, 0.91788},
	{1000, 50, 0.021796, 260.94, 282.74, 0.95252},
	{1000, 60, 0.023068, 270.32, 293.38, 0.98500},
	{1000, 70, 0.024261, 279.59, 303.85, 1.01600},
	{1000, 80, 0.025398, 288.86, 314.25, 1.04590},
}

// Nitrogen ideal-gas constants used to generate the PT table.
const (
	nitrogenCp = 1.04
	nitrogenR  = 0.2968
)

// WaterSatP returns saturated water indexed by pressure.
func WaterSatP() types.Table {
	return waterSatTable(WaterSatPID, "Saturated Water - Pressure", types.ModeSatP)
}

// WaterSatT returns saturated water indexed by temperature.
func WaterSatT() types.Table {
	return waterSatTable(WaterSatTID, "Saturated Water - Temperature", types.ModeSatT)
}

func waterSatTable(id, sheet string, mode types.Mode) types.Table {
	rows := make([]types.Row, 0, len(waterSat))
	for _, r := range waterSat {
		rows = append(rows, types.Row{
			"P": r[0], "T": r[1],
			"vf": r[2], "vfg": r[3] - r[2], "vg": r[3],
			"uf": r[4], "ufg": r[5], "ug": r[6],
			"hf": r[7], "hfg": r[8], "hg": r[9],
			"sf": r[10], "sfg": r[11], "sg": r[12],
		})
	}
	return types.Table{
		ID:         id,
		SheetName:  sheet,
		Fluid:      waterFluid,
		UnitSystem: types.UnitSystemSI,
		Mode:       mode,
		Properties: satProps,
		Rows:       rows,
	}
}

// WaterSuperheated returns superheated water indexed by P and T.
func WaterSuperheated() types.Table {
	return ptTable(WaterSuperID, "Superheated Water", waterFluid, waterSuper)
}

// R134aSatT returns saturated R-134a indexed by temperature.
func R134aSatT() types.Table {
	rows := make([]types.Row, 0, len(r134aSat))
	for _, r := range r134aSat {
		rows = append(rows, types.Row{
			"T": r[0], "P": r[1],
			"vf": r[2], "vfg": r[3] - r[2], "vg": r[3],
			"hf": r[4], "hfg": r[5], "hg": r[4] + r[5],
			"sf": r[6], "sfg": r[7], "sg": r[6] + r[7],
		})
	}
	return types.Table{
		ID:         R134aSatTID,
		SheetName:  "Saturated R-134a - Temperature",
		Fluid:      r134aFluid,
		UnitSystem: types.UnitSystemSI,
		Mode:       types.ModeSatT,
		Properties: []string{"P", "T", "vf", "vfg", "vg", "hf", "hfg", "hg", "sf", "sfg", "sg"},
		Rows:       rows,
	}
}

// R134aSuperheated returns superheated R-134a indexed by P and T.
func R134aSuperheated() types.Table {
	return ptTable(R134aSuperID, "Superheated R-134a", r134aFluid, r134aSuper)
}

// NitrogenPT returns an ideal-gas nitrogen table with T from 100 to 1200 K in
// 50 K steps at five pressures.
func NitrogenPT() types.Table {
	var data [][6]float64
	for _, p := range []float64{100, 200, 500, 1000, 2000} {
		for t := 100.0; t <= 1200; t += 50 {
			h := nitrogenCp * t
			s := nitrogenCp*math.Log(t/298.15) - nitrogenR*math.Log(p/101.325) + 6.84
			data = append(data, [6]float64{p, t, nitrogenR * t / p, h - nitrogenR*t, h, s})
		}
	}
	return ptTable(NitrogenPTID, "Nitrogen Ideal Gas", nitrogenFluid, data)
}

func ptTable(id, sheet, fluid string, data [][6]float64) types.Table {
	rows := make([]types.Row, 0, len(data))
	for _, r := range data {
		rows = append(rows, types.Row{"P": r[0], "T": r[1], "v": r[2], "u": r[3], "h": r[4], "s": r[5]})
	}
	return types.Table{
		ID:         id,
		SheetName:  sheet,
		Fluid:      fluid,
		UnitSystem: types.UnitSystemSI,
		Mode:       types.ModePT,
		Properties: ptProps,
		Rows:       rows,
	}
}

// Tables returns every fixture table.
func Tables() []types.Table {
	return []types.Table{
		WaterSatP(),
		WaterSatT(),
		WaterSuperheated(),
		R134aSatT(),
		R134aSuperheated(),
		NitrogenPT(),
	}
}
