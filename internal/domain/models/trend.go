package models

import "time"

// Point is a single observation in a named equally-spaced series.
// Seq is the observation index within the series; spacing between
// consecutive indices is assumed uniform, so no timestamps participate
// in the fit. Timestamp records arrival time for storage only.
type Point struct {
	Series    string
	Seq       int64
	Value     float64
	Timestamp int64 // unix seconds, arrival time
}

// TrendReport is a fitted trend over the latest window of a series,
// as stored, cached, published, and served.
type TrendReport struct {
	Series    string    `json:"series"`
	Timestamp time.Time `json:"timestamp"`
	N         int       `json:"n"`
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	RSquared  float64   `json:"r_squared"`
	MSE       float64   `json:"mse"`
	Forecast  []float64 `json:"forecast,omitempty"`
}
