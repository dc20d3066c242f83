package models

// Requests for trend HTTP endpoints. Defined in domain for consistency and reuse.

type FitRequest struct {
	Series  string    `json:"series" default:"adhoc"`
	Values  []float64 `json:"values" validate:"required,min=2"`
	Periods int       `json:"periods" default:"0" validate:"gte=0,lte=10000"`
}

type SeriesTrendRequest struct {
	Series  string `query:"series" json:"series" validate:"required"`
	N       int    `query:"n" json:"n" default:"120" validate:"gte=2,lte=100000"`
	Periods int    `query:"periods" json:"periods" default:"12" validate:"gte=0,lte=10000"`
}

type ForecastRequest struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Origin    int     `json:"origin" validate:"gte=0"`
	Periods   int     `json:"periods" validate:"gte=0,lte=10000"`
}

type MetricsRequest struct {
	Actual    []float64 `json:"actual" validate:"required,min=1"`
	Predicted []float64 `json:"predicted" validate:"required,min=1"`
}

type ReportsRequest struct {
	Series string `query:"series" json:"series" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
}
