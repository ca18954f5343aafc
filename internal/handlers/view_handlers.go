package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Werneck0live/crm-patrocinio/internal/dashboard"
	"github.com/Werneck0live/crm-patrocinio/internal/store"
	"github.com/Werneck0live/crm-patrocinio/internal/utils"
)

type snapshotView struct {
	store.Snapshot
	LoadError string `json:"load_error,omitempty"`
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	v := snapshotView{Snapshot: h.Store.Snapshot()}
	if err := h.Store.Status().Err; err != nil {
		v.LoadError = err.Error()
	}
	utils.WriteJSON(w, http.StatusOK, v)
}

// Reload refaz o bootstrap; timeout vira 503 com o store vazio e desbloqueado.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reload(r.Context()); err != nil {
		h.writeErr(w, err)
		return
	}
	h.Snapshot(w, r)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	eventID := r.URL.Query().Get("event_id")
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"loading": snap.Loading,
		"events":  dashboard.ActiveEvents(snap.Events),
		"summary": dashboard.Summarize(snap, eventID),
	})
}

func (h *Handler) Archived(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, dashboard.ArchivedView(h.Store.Snapshot()))
}

func (h *Handler) relationFilter(r *http.Request) (dashboard.Filter, error) {
	q := r.URL.Query()
	st, err := parseStatusFilter(q.Get("status"))
	if err != nil {
		return dashboard.Filter{}, err
	}
	return dashboard.Filter{Search: q.Get("search"), Status: st}, nil
}

func (h *Handler) EventRelations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.Store.Event(id); !ok {
		utils.NotFound(w)
		return
	}
	f, err := h.relationFilter(r)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, dashboard.EventRelations(h.Store.Snapshot(), id, f))
}

func (h *Handler) EventRelationsCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ev, ok := h.Store.Event(id)
	if !ok {
		utils.NotFound(w)
		return
	}
	f, err := h.relationFilter(r)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := dashboard.WriteCSV(&buf, dashboard.EventRelations(h.Store.Snapshot(), id, f)); err != nil {
		h.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dashboard.CSVFilename(ev.Name)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// History lê o log de auditoria; cada chamada é uma busca nova.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	entries, err := h.Audit.Recent(ctx)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, entries)
}
