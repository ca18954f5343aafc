package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/utils"
)

func (h *Handler) CreateRelation(w http.ResponseWriter, r *http.Request) {
	var dto RelationCreateDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	if err := validateRelationDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	rel, err := h.Store.AddRelation(ctx, dto.model())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, rel)
}

func (h *Handler) UpdateRelation(w http.ResponseWriter, r *http.Request) {
	var p models.RelationPatch
	if err := utils.DecodeStrict(r.Body, &p); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	rel, err := h.Store.UpdateRelation(ctx, chi.URLParam(r, "id"), p)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rel)
}

func (h *Handler) ArchiveRelation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	rel, err := h.Store.ArchiveRelation(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rel)
}

func (h *Handler) UnarchiveRelation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	rel, err := h.Store.UnarchiveRelation(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rel)
}

func (h *Handler) DeleteRelation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.Store.DeleteRelation(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
