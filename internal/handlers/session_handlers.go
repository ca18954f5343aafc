package handlers

import (
	"net/http"

	"github.com/Werneck0live/crm-patrocinio/internal/session"
	"github.com/Werneck0live/crm-patrocinio/internal/utils"
)

// sessionView mostra o estado do Guard; os dados do usuário só aparecem para
// quem apresentou um token válido.
func (h *Handler) sessionView(s *session.Session) sessionView {
	st := h.Guard.State()
	v := sessionView{State: st.String()}
	if s != nil && st == session.Authenticated {
		v.Session = &sessionPayload{UserID: s.UserID, Email: s.Email}
	}
	if st == session.Unreachable {
		v.Steps = session.RecoverySteps
	}
	return v
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	var s *session.Session
	if token := r.Header.Get("Authorization"); token != "" {
		s, _ = h.Auth.Parse(token)
	}
	utils.WriteJSON(w, http.StatusOK, h.sessionView(s))
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var dto SignInDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, err := h.Auth.SignIn(ctx, dto.Token)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.sessionView(s))
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.Guard.SignOut(ctx); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RetrySession é o "tentar novamente" da tela de serviço indisponível.
func (h *Handler) RetrySession(w http.ResponseWriter, r *http.Request) {
	h.Guard.Retry(r.Context())
	utils.WriteJSON(w, http.StatusOK, h.sessionView(nil))
}
