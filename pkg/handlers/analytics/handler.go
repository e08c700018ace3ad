package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/de-tools/goal-master/pkg/adapters"
	"github.com/de-tools/goal-master/pkg/models/api"
	"github.com/de-tools/goal-master/pkg/models/domain"
	engine "github.com/de-tools/goal-master/pkg/services/analytics"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	service engine.Service
}

func NewHandler(service engine.Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the analytics endpoints under a router scoped to /users/{user}/analytics.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.GetSummary)
	r.Get("/trend", h.GetTrend)
	r.Get("/trend/categories", h.GetCategoryTrend)
	r.Get("/ranking", h.GetRanking)
	r.Get("/distribution", h.GetDistribution)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := chi.URLParam(r, "user")
	period := engine.ParsePeriod(r.URL.Query().Get("period"))

	stats, err := h.service.GetSummary(ctx, user, period)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user", user).Msg("failed to build summary")
		writeError(w, r, http.StatusInternalServerError, "failed to build summary")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapSummaryDomainToApi(stats))
}

func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := chi.URLParam(r, "user")
	query := r.URL.Query()
	period := engine.ParsePeriod(query.Get("period"))
	category := domain.Category(query.Get("category"))

	series, err := h.service.GetMonthlySeries(ctx, user, period, category)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user", user).Msg("failed to build monthly series")
		writeError(w, r, http.StatusInternalServerError, "failed to build monthly series")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapMonthlySeriesDomainToApi(series))
}

func (h *Handler) GetCategoryTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := chi.URLParam(r, "user")
	period := engine.ParsePeriod(r.URL.Query().Get("period"))

	series, err := h.service.GetCategorySeries(ctx, user, period)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user", user).Msg("failed to build category series")
		writeError(w, r, http.StatusInternalServerError, "failed to build category series")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapCategorySeriesDomainToApi(series))
}

func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := chi.URLParam(r, "user")
	query := r.URL.Query()
	direction := engine.ParseSortDirection(query.Get("sort"))

	limit := engine.DefaultRankingLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid 'limit'. Expected a whole number")
			return
		}
		limit = n
	}

	ranked, err := h.service.GetRanking(ctx, user, direction, limit)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user", user).Msg("failed to rank goals")
		writeError(w, r, http.StatusInternalServerError, "failed to rank goals")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapRankedGoalsDomainToApi(ranked))
}

func (h *Handler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := chi.URLParam(r, "user")
	period := engine.ParsePeriod(r.URL.Query().Get("period"))

	distributions, err := h.service.GetDistributions(ctx, user, period)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user", user).Msg("failed to build distributions")
		writeError(w, r, http.StatusInternalServerError, "failed to build distributions")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapDistributionsDomainToApi(distributions))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, api.Error{Error: message})
}
