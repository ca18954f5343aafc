package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Werneck0live/crm-patrocinio/internal/dashboard"
	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/utils"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, dashboard.ActiveEvents(h.Store.Snapshot().Events))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, ok := h.Store.Event(chi.URLParam(r, "id"))
	if !ok {
		utils.NotFound(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventCreateDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	e, err := h.Store.AddEvent(ctx, dto.model())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var p models.EventPatch
	if err := utils.DecodeStrict(r.Body, &p); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	e, err := h.Store.UpdateEvent(ctx, chi.URLParam(r, "id"), p)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ArchiveEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	e, err := h.Store.ArchiveEvent(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) UnarchiveEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	e, err := h.Store.UnarchiveEvent(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.Store.DeleteEvent(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LinkNewCompany cadastra uma empresa nova já vinculada ao evento.
func (h *Handler) LinkNewCompany(w http.ResponseWriter, r *http.Request) {
	var dto LinkDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	if err := validateLinkDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	c, rel, err := h.Store.LinkNewCompany(ctx, chi.URLParam(r, "id"), dto.Company.model(), dto.Relation.model())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]any{"company": c, "relation": rel})
}
