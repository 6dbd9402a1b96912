package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/handsomefox/flixora/internal/logger"
	"github.com/handsomefox/flixora/internal/player"
	"github.com/handsomefox/flixora/internal/store"
)

// progressRequest is the message the player posts, forwarded by the watch
// page together with the title it was showing.
type progressRequest struct {
	player.ProgressMessage
	Title string `json:"title,omitempty"`
}

type progressResponse struct {
	Key       string  `json:"key"`
	TMDBID    int64   `json:"tmdb_id"`
	MediaType string  `json:"media_type"`
	Title     *string `json:"title"`
	Season    *int64  `json:"season"`
	Episode   *int64  `json:"episode"`
	Progress  float64 `json:"progress"`
	Timestamp float64 `json:"timestamp"`
	Duration  float64 `json:"duration"`
	UpdatedAt string  `json:"updated_at"`
}

func (h *Handler) putProgress(w http.ResponseWriter, r *http.Request) error {
	var req progressRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("invalid progress message: " + err.Error())
	}
	if err := req.Validate(); err != nil {
		return badRequest(err.Error())
	}

	row := progressRow(&req)
	if err := h.progress.SaveProgress(r.Context(), row); err != nil {
		return err
	}
	saved, err := h.progress.GetProgress(r.Context(), row.Key)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, toProgressResponse(&saved))
	return nil
}

func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) error {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		return badRequest("missing key")
	}
	p, err := h.progress.GetProgress(r.Context(), key)
	if isNoRows(err) {
		return notFound("no progress for " + key)
	}
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, toProgressResponse(&p))
	return nil
}

// deleteProgress forgets a bookmark so the title starts from the beginning.
func (h *Handler) deleteProgress(w http.ResponseWriter, r *http.Request) error {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		return badRequest("missing key")
	}
	err := h.progress.DeleteProgress(r.Context(), key)
	if isNoRows(err) {
		return notFound("no progress for " + key)
	}
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) getRecentProgress(w http.ResponseWriter, r *http.Request) error {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			return badRequest("limit must be between 1 and 100")
		}
		limit = n
	}
	items, err := h.progress.ListRecent(r.Context(), limit)
	if err != nil {
		return err
	}
	out := make([]progressResponse, 0, len(items))
	for i := range items {
		out = append(out, toProgressResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

// resumeAt is the stored position for key in whole seconds, 0 when nothing
// is stored or the lookup fails.
func (h *Handler) resumeAt(ctx context.Context, key string) int {
	p, err := h.progress.GetProgress(ctx, key)
	if err != nil {
		if !isNoRows(err) {
			slog.WarnContext(ctx, "progress lookup failed", slog.String("key", key), logger.Error(err))
		}
		return 0
	}
	return p.Seconds()
}

func progressRow(req *progressRequest) *store.Progress {
	row := &store.Progress{
		Key:       req.Key(),
		TMDBID:    req.ID,
		MediaType: req.Type,
		Title:     toSQLNullString(req.Title),
		Progress:  req.Progress,
		Position:  req.Timestamp,
		Duration:  req.Duration,
	}
	if req.Type == player.MediaTV {
		row.Season = sql.Null[int64]{V: int64(*req.Season), Valid: true}
		row.Episode = sql.Null[int64]{V: int64(*req.Episode), Valid: true}
	}
	return row
}

func toProgressResponse(p *store.Progress) progressResponse {
	return progressResponse{
		Key:       p.Key,
		TMDBID:    p.TMDBID,
		MediaType: p.MediaType,
		Title:     fromSQLNull(p.Title),
		Season:    fromSQLNull(p.Season),
		Episode:   fromSQLNull(p.Episode),
		Progress:  p.Progress,
		Timestamp: p.Position,
		Duration:  p.Duration,
		UpdatedAt: p.UpdatedAt,
	}
}

func toSQLNullString(val string) sql.Null[string] {
	val = strings.TrimSpace(val)
	if val == "" {
		return sql.Null[string]{}
	}
	return sql.Null[string]{Valid: true, V: val}
}

func fromSQLNull[T any](v sql.Null[T]) *T {
	if v.Valid {
		return &v.V
	}
	return nil
}
