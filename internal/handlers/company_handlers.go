package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Werneck0live/crm-patrocinio/internal/dashboard"
	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/utils"
)

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	list := dashboard.ActiveCompanies(h.Store.Snapshot().Companies, r.URL.Query().Get("search"))
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, ok := h.Store.Company(chi.URLParam(r, "id"))
	if !ok {
		utils.NotFound(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var dto CompanyCreateDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	c, err := h.Store.AddCompany(ctx, dto.model())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var p models.CompanyPatch
	if err := utils.DecodeStrict(r.Body, &p); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	c, err := h.Store.UpdateCompany(ctx, chi.URLParam(r, "id"), p)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ArchiveCompany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	c, err := h.Store.ArchiveCompany(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UnarchiveCompany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	c, err := h.Store.UnarchiveCompany(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.Store.DeleteCompany(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RefreshContacts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.Store.RefreshCompanyContacts(ctx, id); err != nil {
		h.writeErr(w, err)
		return
	}
	c, ok := h.Store.Company(id)
	if !ok {
		utils.NotFound(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var dto ContactDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	c, err := h.Store.AddContact(ctx, dto.model())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// UpdateContact: ?company_id= pede o refresh dos contatos da empresa.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var p models.ContactPatch
	if err := utils.DecodeStrict(r.Body, &p); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	c, err := h.Store.UpdateContact(ctx, chi.URLParam(r, "id"), p, r.URL.Query().Get("company_id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.Store.DeleteContact(ctx, chi.URLParam(r, "id"), r.URL.Query().Get("company_id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
