package handler

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/model"
	"github.com/Abinayasri1011/noolsakaa/internal/catalog/service"
	"github.com/Abinayasri1011/noolsakaa/internal/config"
	"github.com/Abinayasri1011/noolsakaa/internal/metrics"
	"github.com/Abinayasri1011/noolsakaa/internal/middleware"
)

const maxSuggestLimit = 100

// Handler serves the catalog API. The catalog itself is read through the
// Loader on every request so an edited file is picked up without a restart.
type Handler struct {
	cfg         config.Config
	loader      *service.Loader
	matcher     service.Matcher
	recommender *service.Recommender
	logger      zerolog.Logger
}

func New(cfg config.Config, loader *service.Loader, rec *service.Recommender, logger zerolog.Logger) *Handler {
	return &Handler{
		cfg:         cfg,
		loader:      loader,
		matcher:     service.NewMatcher(cfg.FuzzyCutoff),
		recommender: rec,
		logger:      logger,
	}
}

type catalogResponse struct {
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
	Entries int      `json:"entries"`
	Genres  []string `json:"genres"`
}

type suggestResponse struct {
	Options []string `json:"options"`
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalog(w, r)
	if !ok {
		return
	}
	seen := make(map[string]bool)
	genres := []string{}
	for _, e := range cat.Entries {
		if e.Genre != "" && !seen[e.Genre] {
			seen[e.Genre] = true
			genres = append(genres, e.Genre)
		}
	}
	sort.Strings(genres)
	_ = writeJSON(w, http.StatusOK, catalogResponse{
		Source:  cat.Source,
		Columns: cat.Columns,
		Entries: cat.Len(),
		Genres:  genres,
	})
}

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalog(w, r)
	if !ok {
		return
	}
	limit := atoi(r.URL.Query().Get("limit"), h.cfg.SuggestLimit)
	if limit < 1 || limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	var opts []string
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) == "" {
		opts = service.Options(cat)
		if len(opts) > limit {
			opts = opts[:limit]
		}
	} else {
		opts = service.Suggest(cat, q, limit)
	}
	if opts == nil {
		opts = []string{}
	}
	_ = writeJSON(w, http.StatusOK, suggestResponse{Options: opts})
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}
	cat, ok := h.catalog(w, r)
	if !ok {
		return
	}
	fav, err := h.matcher.ResolveFavorite(cat, req.Query)
	if err != nil {
		h.matchError(w, r, err)
		return
	}
	metrics.RecordResolution(fav.Method)
	_ = writeJSON(w, http.StatusOK, toPicks([]model.Favorite{fav})[0])
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, recommendResponse{
		TopN:            res.topN,
		Picks:           toPicks(res.favorites),
		Recommendations: toBooks(res.recs),
	})
}

// Export renders the same list as Recommend for download: format=csv (the
// default) or format=qr for the text behind a scannable code.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "qr" {
		writeError(w, http.StatusBadRequest, "bad_format", fmt.Sprintf("unsupported format %q", format))
		return
	}
	res, ok := h.run(w, r)
	if !ok {
		return
	}

	if format == "qr" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(qrPayload(res.recs, h.cfg.QRPayloadMax)))
		return
	}

	body, err := exportCSV(res.recs)
	if err != nil {
		log := h.requestLogger(r)
		log.Error().Err(err).Msg("csv export failed")
		writeError(w, http.StatusInternalServerError, "internal", "export failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="noolsaka_recs.csv"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type result struct {
	topN      int
	favorites []model.Favorite
	recs      []model.Recommendation
}

// run decodes a recommend request, resolves every favorite and ranks the
// catalog. On failure it has already written the response.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (result, bool) {
	start := time.Now()
	log := h.requestLogger(r)

	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return result{}, false
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return result{}, false
	}

	queries := cleanFavorites(req.Favorites)
	if len(queries) == 0 {
		writeError(w, http.StatusBadRequest, "empty_favorites", model.ErrEmptyFavorites.Error())
		return result{}, false
	}
	if len(queries) > h.cfg.MaxFavorites {
		writeError(w, http.StatusBadRequest, "too_many_favorites",
			fmt.Sprintf("at most %d favorites", h.cfg.MaxFavorites))
		return result{}, false
	}
	topN := req.TopN
	if topN == 0 {
		topN = h.cfg.DefaultTopN
	}
	if topN > h.cfg.MaxTopN {
		writeError(w, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("top_n must be within 1..%d", h.cfg.MaxTopN))
		return result{}, false
	}

	cat, ok := h.catalog(w, r)
	if !ok {
		return result{}, false
	}

	favs := make([]model.Favorite, 0, len(queries))
	picked := make([]model.Entry, 0, len(queries))
	for _, q := range queries {
		fav, err := h.matcher.ResolveFavorite(cat, q)
		if err != nil {
			h.matchError(w, r, err)
			return result{}, false
		}
		metrics.RecordResolution(fav.Method)
		favs = append(favs, fav)
		picked = append(picked, fav.Entry)
	}

	recs := h.recommender.Rank(cat, picked, topN)
	metrics.RecordRecommendation(len(recs))

	log.Info().
		Int("favorites", len(favs)).
		Int("top_n", topN).
		Int("results", len(recs)).
		Dur("elapsed", time.Since(start)).
		Msg("recommend done")

	return result{topN: topN, favorites: favs, recs: recs}, true
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) (*model.Catalog, bool) {
	cat, err := h.loader.Load(h.cfg.CatalogPath)
	if err != nil {
		log := h.requestLogger(r)
		log.Error().Err(err).Str("path", h.cfg.CatalogPath).Msg("catalog load failed")
		writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog could not be loaded")
		return nil, false
	}
	return cat, true
}

func (h *Handler) matchError(w http.ResponseWriter, r *http.Request, err error) {
	var nm *model.NoMatchError
	if errors.As(err, &nm) {
		metrics.RecordResolution("none")
		_ = writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   "no_match",
			Message: nm.Error(),
			Query:   nm.Query,
		})
		return
	}
	log := h.requestLogger(r)
	log.Error().Err(err).Msg("resolve failed")
	writeError(w, http.StatusInternalServerError, "internal", "resolve failed")
}

func (h *Handler) requestLogger(r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return h.logger.With().Str("rid", rid).Logger()
	}
	return h.logger
}
