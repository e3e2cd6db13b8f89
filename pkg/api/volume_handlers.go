package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pacsforge/siteserver/pkg/dbpool"
	"github.com/pacsforge/siteserver/pkg/document"
	"github.com/pacsforge/siteserver/pkg/entity"
	"github.com/pacsforge/siteserver/pkg/mediacache"
	"github.com/pacsforge/siteserver/pkg/query"
)

// GetVolumeHandler handles GET /api/v1/volumes/{seq}?flags=N. When the
// media group is selected, the volume's media rows are fetched from the
// child table and attached as an array of media documents; the redundant
// volume_id field is stripped from each child because the parent is
// already known.
func GetVolumeHandler(pool *dbpool.Pool, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq := chi.URLParam(r, "seq")
		flags, err := parseFlags(r, entity.Volume.AllFlags())
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed flags")
			return
		}

		lease, err := pool.Get(r.Context())
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		defer lease.Release()
		db := lease.DB()

		cols := entity.Volume.Columns(flags, "")
		row, err := query.SelectOne(r.Context(), db, cols, entity.Volume.Table,
			"seq = ?", query.LockNone, query.Named("seq", seq))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		doc := document.New()
		if err := entity.Volume.ReadRecord(row, flags, nil, doc); err != nil {
			writeFailure(w, logger, err)
			return
		}

		if flags&entity.VolumeInfoMedia != 0 {
			mediaFlags := entity.Media.AllFlags()
			mediaCols := entity.Media.Columns(mediaFlags, "")
			rows, err := query.Select(r.Context(), db, mediaCols, entity.Media.Table,
				"volume_id = ? ORDER BY slot", query.LockNone, query.Named("volume_id", seq))
			if err != nil {
				writeFailure(w, logger, err)
				return
			}
			subs := make([]*document.Document, 0, len(rows))
			for _, mrow := range rows {
				var parentSeq string
				sub := document.New()
				if err := entity.Media.ReadRecord(mrow, mediaFlags,
					map[string]*string{"volume_id": &parentSeq}, sub); err != nil {
					writeFailure(w, logger, err)
					return
				}
				subs = append(subs, sub)
			}
			doc.Set("media", subs)
		}

		writeJSON(w, http.StatusOK, doc)
	}
}

// PlacementHandler handles GET /api/v1/volumes/{seq}/placement?kind=...
// It resolves the currently writable media slot for the volume and target
// class. A volume with no writable slot is an ok response with no data,
// not an error.
func PlacementHandler(cache *mediacache.PlacementCache, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq := chi.URLParam(r, "seq")
		kind := r.URL.Query().Get("kind")

		slot, ok, err := cache.CurrentMediaFolder(r.Context(), seq, kind)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		if !ok {
			respond(w, http.StatusOK, envelope{
				Status:  "ok",
				Message: "no writable media on volume",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"volume_id":      slot.VolumeID,
			"slot":           slot.Number,
			"folder":         slot.Path,
			"fill_threshold": slot.FullThreshold,
		})
	}
}
