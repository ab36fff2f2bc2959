// Package climdex computes standard precipitation-based climate-extreme
// indices from daily (or sub-daily) time series.
//
// # Indices
//
// The calculator covers the precipitation subset of the ETCCDI climate
// change indices:
//
//	rx1day   max 1-day precipitation per period
//	rx5day   max centered 5-day precipitation sum per period
//	rnmm     annual count of days with precipitation ≥ n mm
//	r10mm    rnmm with n = 10
//	r20mm    rnmm with n = 20
//	prcptot  total precipitation on wet days per period
//	sdii     simple daily intensity index: wet-day total / wet-day count
//	cdd      longest run of consecutive dry days (≤ 1 mm) per period
//	cwd      longest run of consecutive wet days (≥ 1 mm) per period
//
// Every index first aggregates the input to daily resolution by summing all
// observations on the same UTC calendar day, so sub-daily input is handled
// uniformly. Reporting periods are monthly ("1M") or yearly ("1y").
//
// # Units
//
// Threshold literals (1, 10, 20 mm) are defined in millimeters. A
// calculator built with WithConvertUnits maps each literal into the unit
// system of the input data before comparison, so data can stay in inches,
// centimeters, or scaled integers. One deliberate exception: PrcpTot's
// wet-day threshold is a caller-supplied value in input units and is NOT
// passed through the conversion hook; callers converting units must convert
// that threshold themselves.
//
// All operations are pure: no I/O, no logging, no retained state beyond the
// two construction-time settings.
package climdex
