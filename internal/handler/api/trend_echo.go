package api

import (
	"errors"
	"net/http"
	"time"

	models "TimeWise/internal/domain/models"
	"TimeWise/internal/service/metrics"
	"TimeWise/internal/service/ratelimit"
	"TimeWise/internal/services/regression"
	"TimeWise/internal/usecase"
	xhttp "TimeWise/pkg/http"
	xlogger "TimeWise/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TrendEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type TrendEchoHandler struct {
	logger *xlogger.Logger
	an     *usecase.TrendAnalyzer
	hub    *LiveHub
	rl     *ratelimit.Limiter
}

func NewTrendEchoHandler(logger *xlogger.Logger, an *usecase.TrendAnalyzer) *TrendEchoHandler {
	metrics.Register()
	return &TrendEchoHandler{logger: logger, an: an, rl: ratelimit.New()}
}

// SetHub injects the live report hub serving /api/trend/live.
func (h *TrendEchoHandler) SetHub(hub *LiveHub) { h.hub = hub }

func (h *TrendEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/trend")
	g.POST("/fit", h.Fit)
	g.GET("/series", h.Series)
	g.POST("/forecast", h.Forecast)
	g.POST("/metrics", h.Metrics)
	g.GET("/reports", h.Reports)
	if h.hub != nil {
		g.GET("/live", h.hub.Serve)
	}
	e.GET("/healthz", h.Health)
}

// Fit runs an ad-hoc fit over posted values.
func (h *TrendEchoHandler) Fit(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.TrendLatency.WithLabelValues("fit").Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":fit", 10, 5) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	req := &models.FitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.an.AnalyzeValues(c.Request().Context(), req.Series, req.Values, req.Periods)
	if err != nil {
		metrics.TrendErrors.WithLabelValues("fit").Inc()
		return h.engineError(c, "fit", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Series fits the latest n stored points of a series.
func (h *TrendEchoHandler) Series(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.TrendLatency.WithLabelValues("series").Observe(time.Since(start).Seconds()) }()

	req := &models.SeriesTrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if cached, ok := h.an.CachedReport(req.Series); ok && cached.N == req.N && len(cached.Forecast) == req.Periods {
		c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
		return xhttp.SuccessResponse(c, cached)
	}

	res, err := h.an.AnalyzeSeries(c.Request().Context(), req.Series, req.N, req.Periods)
	if err != nil {
		metrics.TrendErrors.WithLabelValues("series").Inc()
		return h.engineError(c, "series", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Forecast extrapolates from explicit coefficients; no validation of the
// coefficients themselves, matching the engine contract.
func (h *TrendEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	values := regression.Forecast(regression.Coefficients{
		Slope:     req.Slope,
		Intercept: req.Intercept,
	}, req.Origin, req.Periods)
	return xhttp.SuccessResponse(c, map[string]interface{}{"values": values})
}

// Metrics computes R2 and MSE over posted actual/predicted values.
func (h *TrendEchoHandler) Metrics(c echo.Context) error {
	req := &models.MetricsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r2, err := regression.RSquared(req.Actual, req.Predicted)
	if err != nil {
		return h.engineError(c, "metrics", err)
	}
	mse, err := regression.MSE(req.Actual, req.Predicted)
	if err != nil {
		return h.engineError(c, "metrics", err)
	}
	return xhttp.SuccessResponse(c, map[string]float64{"r_squared": r2, "mse": mse})
}

// Reports returns stored report history for a series.
func (h *TrendEchoHandler) Reports(c echo.Context) error {
	req := &models.ReportsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Now().UTC())
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), to.Add(-24*time.Hour))

	rows, err := h.an.Reports(c.Request().Context(), req.Series, from, to, req.Limit)
	if err != nil {
		metrics.TrendErrors.WithLabelValues("reports").Inc()
		h.logger.Error("reports query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Health reports liveness.
func (h *TrendEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// engineError maps the engine's error taxonomy to HTTP responses: every
// validation failure surfaces its kind as a 400; anything else is internal.
func (h *TrendEchoHandler) engineError(c echo.Context, endpoint string, err error) error {
	var code string
	switch {
	case errors.Is(err, regression.ErrEmptyData):
		code = "ERR_EMPTY_DATA"
	case errors.Is(err, regression.ErrInsufficientData):
		code = "ERR_INSUFFICIENT_DATA"
	case errors.Is(err, regression.ErrInvalidInput):
		code = "ERR_INVALID_INPUT"
	default:
		h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	appErr := xhttp.NewAppError(code, "", err.Error(), http.StatusBadRequest).WithError(err)
	return xhttp.AppErrorResponse(c, appErr)
}
