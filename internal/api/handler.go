package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"PremiumSentinel/internal/advisor"
	"PremiumSentinel/internal/calculator"
	"PremiumSentinel/internal/credential"
	"PremiumSentinel/internal/fund"
	"PremiumSentinel/internal/model"
	"PremiumSentinel/internal/strategy"
)

// maxImportBytes caps the CSV upload size.
const maxImportBytes = 4 << 20

// FundService is the pipeline behind the fund endpoints.
type FundService interface {
	Ranking(ctx context.Context, key strategy.SortKey, dir strategy.SortDir) model.Ranking
	Detail(ctx context.Context, ticker string, days int) (model.FundDetail, error)
	Import(r io.Reader, days int) (model.FundDetail, error)
	Analyze(ctx context.Context, ticker string) (string, error)
}

// CredentialStore holds the advisor API key.
type CredentialStore interface {
	Get() (string, error)
	Set(value string) error
}

// Handler serves the fund analytics API.
type Handler struct {
	svc   FundService
	creds CredentialStore
}

func NewHandler(svc FundService, creds CredentialStore) *Handler {
	return &Handler{svc: svc, creds: creds}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/funds", h.Ranking)
	g.GET("/funds/:ticker", h.Detail)
	g.POST("/funds/:ticker/analysis", h.Analysis)
	g.POST("/import", h.Import)
	g.GET("/credential", h.GetCredential)
	g.PUT("/credential", h.PutCredential)
}

func (h *Handler) Health(c echo.Context) error {
	return SuccessResponse(c, map[string]string{"status": "ok"})
}

// Ranking returns the fund comparison table. Query: sort=score|premium|rank, dir=asc|desc.
func (h *Handler) Ranking(c echo.Context) error {
	key, dir := strategy.ParseSort(c.QueryParam("sort"), c.QueryParam("dir"))
	return SuccessResponse(c, h.svc.Ranking(c.Request().Context(), key, dir))
}

// Detail returns one fund's windowed series and dashboard. Query: days=30|90|180|365.
func (h *Handler) Detail(c echo.Context) error {
	days, err := daysParam(c)
	if err != nil {
		return BadRequestResponse(c, err.Error())
	}
	ticker := c.Param("ticker")
	detail, err := h.svc.Detail(c.Request().Context(), ticker, days)
	if errors.Is(err, fund.ErrUnknownFund) {
		return NotFoundResponse(c, "unknown fund: "+ticker)
	}
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("fund detail")
		return InternalServerErrorResponse(c)
	}
	return SuccessResponse(c, detail)
}

// Import evaluates a CSV body of date,price,reference lines.
func (h *Handler) Import(c echo.Context) error {
	days, err := daysParam(c)
	if err != nil {
		return BadRequestResponse(c, err.Error())
	}
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxImportBytes)
	detail, err := h.svc.Import(body, days)
	if errors.Is(err, calculator.ErrNoRows) {
		return BadRequestResponse(c, "没有可解析的数据行，格式: 日期,价格,净值")
	}
	if err != nil {
		log.Warn().Err(err).Msg("csv import")
		return BadRequestResponse(c, "无法读取上传内容")
	}
	return SuccessResponse(c, detail)
}

// Analysis asks the advisor about a fund's latest points.
func (h *Handler) Analysis(c echo.Context) error {
	ticker := c.Param("ticker")
	text, err := h.svc.Analyze(c.Request().Context(), ticker)
	switch {
	case err == nil:
		return SuccessResponse(c, map[string]string{"ticker": ticker, "analysis": text})
	case errors.Is(err, fund.ErrUnknownFund):
		return NotFoundResponse(c, "unknown fund: "+ticker)
	case errors.Is(err, advisor.ErrNoData):
		return ErrorResponse(c, http.StatusUnprocessableEntity, advisor.ErrNoData.Error())
	case errors.Is(err, advisor.ErrMissingCredential):
		return ErrorResponse(c, http.StatusPreconditionRequired, "请先配置 "+credential.Key)
	default:
		return ErrorResponse(c, http.StatusBadGateway, advisor.ErrAnalysisFailed.Error())
	}
}

type credentialRequest struct {
	APIKey string `json:"api_key"`
}

// GetCredential reports whether a key is set, masked.
func (h *Handler) GetCredential(c echo.Context) error {
	v, err := h.creds.Get()
	if errors.Is(err, credential.ErrNotFound) {
		return SuccessResponse(c, map[string]any{"configured": false})
	}
	if err != nil {
		log.Error().Err(err).Msg("read credential")
		return InternalServerErrorResponse(c)
	}
	return SuccessResponse(c, map[string]any{"configured": true, "api_key": credential.Mask(v)})
}

// PutCredential stores or clears the advisor key.
func (h *Handler) PutCredential(c echo.Context) error {
	var req credentialRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid JSON body")
	}
	if err := h.creds.Set(req.APIKey); err != nil {
		log.Error().Err(err).Msg("store credential")
		return InternalServerErrorResponse(c)
	}
	return c.NoContent(http.StatusNoContent)
}

func daysParam(c echo.Context) (int, error) {
	raw := c.QueryParam("days")
	if raw == "" {
		return strategy.DefaultTimeRange, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || !strategy.ValidTimeRange(days) {
		return 0, errors.New("days must be one of 30, 90, 180, 365")
	}
	return days, nil
}
