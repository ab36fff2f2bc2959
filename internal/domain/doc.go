// Package domain models precipitation observation bundles and the climate
// index reports computed from them.
//
// # Data Flow
//
// Upstream station collectors publish one JSON bundle per station and
// accumulation window to the source Kafka topic. A bundle carries the
// station id, the variable name (normally "PRCP"), the measurement unit,
// and the chronologically ordered observations:
//
//	{
//	  "station_id": "USW00023174",
//	  "variable": "PRCP",
//	  "unit": "mm",
//	  "observations": [
//	    {"time": "2024-01-01T06:00:00Z", "value": 2.4},
//	    ...
//	  ]
//	}
//
// Observations may be sub-daily; the index calculator aggregates them to
// calendar days before any reduction. A null value marks a missing
// observation and is carried as NaN.
//
// # Units
//
// The wet/dry thresholds of the climate indices are defined in millimeters.
// ConvertFromMM returns the hook that rescales those literals into the
// bundle's unit system, so bundles may report in millimeters, centimeters,
// inches, or tenths of millimeters (the GHCN PRCP convention).
//
// # Reports
//
// The transform output is one IndexReport per bundle: the computed value of
// every configured index per reporting bucket, stamped with ComputedAt from
// the package clock (swappable in tests via SetClock).
package domain
