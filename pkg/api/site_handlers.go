package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pacsforge/siteserver/pkg/dbpool"
	"github.com/pacsforge/siteserver/pkg/document"
	"github.com/pacsforge/siteserver/pkg/entity"
	"github.com/pacsforge/siteserver/pkg/query"
)

// parseFlags reads the flags query parameter, defaulting when absent.
// Accepts decimal and 0x-prefixed hex.
func parseFlags(r *http.Request, def uint64) (uint64, error) {
	raw := r.URL.Query().Get("flags")
	if raw == "" {
		return def, nil
	}
	return strconv.ParseUint(raw, 0, 64)
}

// decodeDocument reads the request body into a document.
func decodeDocument(r *http.Request) (*document.Document, error) {
	doc := document.New()
	if err := json.NewDecoder(r.Body).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetSiteHandler handles GET /api/v1/sites/{seq}?flags=N
func GetSiteHandler(pool *dbpool.Pool, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq := chi.URLParam(r, "seq")
		flags, err := parseFlags(r, entity.SiteInfoAll)
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

		cols := entity.Site.Columns(flags, "")
		row, err := query.SelectOne(r.Context(), lease.DB(), cols, entity.Site.Table,
			"seq = ?", query.LockNone, query.Named("seq", seq))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}

		doc := document.New()
		if err := entity.Site.ReadRecord(row, flags, nil, doc); err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

// ListSitesHandler handles GET /api/v1/sites?flags=N&filter=...
// The filter expression is compiled against the site's own columns, so it
// can never reach beyond the entity's projection.
func ListSitesHandler(pool *dbpool.Pool, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flags, err := parseFlags(r, entity.SiteInfoAll)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed flags")
			return
		}
		predicate, args, err := query.CompileFilter(
			r.URL.Query().Get("filter"),
			entity.Site.Columns(entity.SiteInfoAll, ""))
		if err != nil {
			writeFailure(w, logger, err)
			return
		}

		lease, err := pool.Get(r.Context())
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		defer lease.Release()

		cols := entity.Site.Columns(flags, "")
		rows, err := query.Select(r.Context(), lease.DB(), cols, entity.Site.Table,
			predicate, query.LockNone, args...)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}

		docs := make([]*document.Document, 0, len(rows))
		for _, row := range rows {
			doc := document.New()
			if err := entity.Site.ReadRecord(row, flags, nil, doc); err != nil {
				writeFailure(w, logger, err)
				return
			}
			docs = append(docs, doc)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"sites": docs,
			"count": len(docs),
		})
	}
}

// CreateSiteHandler handles POST /api/v1/sites. The body is a site
// document without a seq; it must verify with the name group present. The
// server assigns the seq.
func CreateSiteHandler(pool *dbpool.Pool, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := decodeDocument(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed document")
			return
		}
		if !doc.Has(entity.KeySeq) {
			doc.Set(entity.KeySeq, "")
		}
		if err := entity.Site.Verify(doc, false, entity.SiteInfoName); err != nil {
			writeFailure(w, logger, err)
			return
		}
		flags, _ := doc.Uint(entity.KeyFlags)
		doc.Set(entity.KeySeq, uuid.NewString())

		values, err := entity.Site.Values(doc, flags)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}

		lease, err := pool.Get(r.Context())
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		defer lease.Release()

		cols := entity.Site.Columns(flags, "")
		if err := query.Insert(r.Context(), lease.DB(), entity.Site.Table, cols, values...); err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, doc)
	}
}

// UpdateSiteHandler handles PUT /api/v1/sites/{seq}. The document's flags
// select which column groups the update touches.
func UpdateSiteHandler(pool *dbpool.Pool, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq := chi.URLParam(r, "seq")
		doc, err := decodeDocument(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed document")
			return
		}
		doc.Set(entity.KeySeq, seq)
		if err := entity.Site.Verify(doc, true, 0); err != nil {
			writeFailure(w, logger, err)
			return
		}
		flags, _ := doc.Uint(entity.KeyFlags)

		values, err := entity.Site.Values(doc, flags)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		cols := entity.Site.Columns(flags, "")
		if len(cols) < 2 {
			writeError(w, http.StatusBadRequest, "flags select no updatable columns")
			return
		}

		lease, err := pool.Get(r.Context())
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		defer lease.Release()

		// Skip the seq column; it is the row identity, not an update target.
		args := append(values[1:], query.Named("seq", seq))
		if err := query.Update(r.Context(), lease.DB(), entity.Site.Table,
			cols[1:], "seq = ?", args...); err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

// DeleteSiteHandler handles DELETE /api/v1/sites/{seq}.
func DeleteSiteHandler(pool *dbpool.Pool, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq := chi.URLParam(r, "seq")

		lease, err := pool.Get(r.Context())
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		defer lease.Release()

		if err := query.Delete(r.Context(), lease.DB(), entity.Site.Table,
			"seq = ?", query.Named("seq", seq)); err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": seq})
	}
}
