package api

import (
	"net/http"

	"chemibot/backend/internal/interfaces"
)

// CredentialsRequest is the body of the signup and login endpoints. bcrypt only uses
// the first 72 bytes of a password, so longer ones are rejected.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email" example:"student@example.com"`
	Password string `json:"password" validate:"required,max=72" example:"s3cret"`
}

// AuthHandler serves account registration and login.
type AuthHandler struct {
	service interfaces.AuthService
}

func NewAuthHandler(svc interfaces.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSignup godoc
// @Summary      Register an account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      CredentialsRequest  true  "Email and password"
// @Success      200          {object}  MessageResponse
// @Failure      400          {object}  ErrorResponse
// @Router       /signup [post]
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.service.Signup(r.Context(), req.Email, req.Password); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Msg: "Signup success"})
}

// HandleLogin godoc
// @Summary      Check credentials
// @Description  No token is issued; a success only confirms the credentials.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      CredentialsRequest  true  "Email and password"
// @Success      200          {object}  MessageResponse
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	email, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Msg: "Login success", Email: email})
}
