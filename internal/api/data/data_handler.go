package data

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-auth-gate/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetEntries(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	dataService Service
	logger      *slog.Logger
}

func NewDataHandlerImpl(dataService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		dataService: dataService,
		logger:      logger,
	}
}

// parseLimit returns 0 when no limit was requested.
func parseLimit(raw string) (int, string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "", true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, MsgInvalidLimit, false
	}
	if n == 0 {
		return 0, MsgLimitNotPositive, false
	}
	return n, "", true
}

// GetEntries godoc
// @Summary      Public API catalogue
// @Description  Fetches entries from the public API catalogue, optionally filtered by category and truncated to limit.
// @Tags         Data
// @Produce      json
// @Param        category query string  false "Filter entries by category"
// @Param        limit    query integer false "Maximum number of entries returned"
// @Success      200 {array}  data.Entry
// @Failure      400 {object} api.Response "Invalid limit"
// @Failure      401 {object} api.Response "Login to access this route"
// @Failure      500 {object} api.DataErrorResponse
// @Security     BearerAuth
// @Router       /data [get]
func (h *HandlerImpl) GetEntries(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "GetEntries"))

	category := r.URL.Query().Get("category")
	limit, msg, ok := parseLimit(r.URL.Query().Get("limit"))
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, msg)
		return
	}

	entries, err := h.dataService.Entries(r.Context(), category, limit)
	if err != nil {
		l.ErrorContext(r.Context(), "Failed to fetch entries", slog.Any("error", err))
		detail := err.Error()
		if !errors.Is(err, ErrUpstream) {
			detail = api.MsgSomethingWentWrong
		}
		api.WriteJSONResponse(w, r, http.StatusInternalServerError, api.DataErrorResponse{
			Message: MsgFetchFailed,
			Error:   detail,
		})
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, entries)
}
