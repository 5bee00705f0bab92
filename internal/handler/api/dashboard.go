package api

import (
	"net/http"

	models "SolPulse/internal/domain/models"
	domrepo "SolPulse/internal/domain/repository"
	"SolPulse/internal/service/ratelimit"
	"SolPulse/internal/usecase"
	xhttp "SolPulse/pkg/http"
	xlogger "SolPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Trigger abuse protection: a short burst, then one request per 5s
// per client IP.
const (
	triggerBurst  = 3.0
	triggerRefill = 0.2
)

// DashboardHandler exposes the REST API consumed by the dashboard.
type DashboardHandler struct {
	logger  *xlogger.Logger
	runs    *usecase.RunManager
	quick   *usecase.QuickDataUseCase
	history domrepo.HistoryStore
	candles domrepo.CandleSource
	limiter *ratelimit.Limiter
}

func NewDashboardHandler(
	logger *xlogger.Logger,
	runs *usecase.RunManager,
	quick *usecase.QuickDataUseCase,
	history domrepo.HistoryStore,
	candles domrepo.CandleSource,
) *DashboardHandler {
	return &DashboardHandler{
		logger:  logger,
		runs:    runs,
		quick:   quick,
		history: history,
		candles: candles,
		limiter: ratelimit.New(),
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/trigger", h.Trigger)
	g.GET("/status", h.Status)
	g.GET("/quick-data", h.QuickData)
	g.GET("/latest", h.Latest)
	g.GET("/history", h.History)
	g.GET("/accuracy", h.Accuracy)
	g.GET("/candles", h.Candles)
	e.GET("/health", h.Health)
}

// Trigger starts an analysis run. A trigger during a run is not an
// error; it reports already_running with a 200 so the caller can fall
// back to polling the run already in flight.
func (h *DashboardHandler) Trigger(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), triggerBurst, triggerRefill) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "too many trigger requests")
	}
	res := h.runs.Trigger(c.Request().Context())
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.runs.Status())
}

func (h *DashboardHandler) QuickData(c echo.Context) error {
	qd, err := h.quick.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("quick-data failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, qd)
}

func (h *DashboardHandler) Latest(c echo.Context) error {
	p, err := h.runs.Latest(c.Request().Context())
	if err != nil {
		h.logger.Error("latest failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if p == nil {
		return xhttp.NotFoundResponse(c, "no prediction yet")
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *DashboardHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	recs, err := h.history.Recent(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("history failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if recs == nil {
		recs = []*models.PredictionRecord{}
	}
	return xhttp.SuccessResponse(c, recs)
}

func (h *DashboardHandler) Accuracy(c echo.Context) error {
	sum, err := h.history.Summary(c.Request().Context())
	if err != nil {
		h.logger.Error("accuracy failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, sum)
}

func (h *DashboardHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	iv := domrepo.NormalizeInterval(req.Interval)
	out, err := h.candles.GetCandles(c.Request().Context(), req.Symbol, iv, req.Limit)
	if err != nil {
		h.logger.Error("candles failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, out)
}

func (h *DashboardHandler) Health(c echo.Context) error {
	if err := h.history.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
