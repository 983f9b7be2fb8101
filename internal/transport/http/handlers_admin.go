package httptransport

import (
	"net/http"
)

type adminCredentialsRequest struct {
	AdminID  string `json:"admin_id"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

func (h *Handler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminCredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.admins.Login(r.Context(), req.AdminID, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, adminLoginResponse{
		Message:     "Admin login successful",
		AccessToken: token,
	})
}

func (h *Handler) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminCredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.admins.Register(r.Context(), req.AdminID, req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Admin registered successfully")
}
