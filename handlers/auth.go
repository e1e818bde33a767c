package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"kdsgroup.co.in/hms/middleware"
	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/pkg/hmsapi"
	"kdsgroup.co.in/hms/utils"
)

type loginReq struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      userPayload `json:"user"`
}

type userPayload struct {
	UserID   int    `json:"userId"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

// Login godoc
// @Summary      Log in with HMS credentials
// @Description  Exchanges credentials with the backend and returns a gateway token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginReq  true  "Credentials"
// @Success      200   {object}  loginResp
// @Failure      400   {string}  string
// @Failure      401   {string}  string
// @Failure      502   {string}  string
// @Router       /login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	req.UserName = strings.TrimSpace(req.UserName)
	if req.UserName == "" || req.Password == "" {
		http.Error(w, "userName and password are required", http.StatusBadRequest)
		return
	}

	res, err := h.API.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		var apiErr *hmsapi.APIError
		if errors.As(err, &apiErr) && apiErr.Err == nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.fail(w, r, err)
		return
	}
	if res.UserID == 0 || res.Token == "" {
		http.Error(w, "upstream returned no session", http.StatusBadGateway)
		return
	}
	if res.UserName == "" {
		res.UserName = req.UserName
	}

	token, sess, err := h.Auth.StartSession(r.Context(), res)
	if err != nil {
		h.Log.Error("start session", zap.Int("userId", res.UserID), zap.Error(err))
		http.Error(w, "couldn't create token", http.StatusInternalServerError)
		return
	}
	h.Log.Info("🔑 user logged in", zap.Int("userId", res.UserID), zap.String("role", res.RoleName))

	writeJSON(w, http.StatusOK, loginResp{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		User: userPayload{
			UserID:   sess.UserID,
			UserName: sess.UserName,
			Role:     sess.Role,
		},
	})
}

// Logout godoc
// @Summary      End the current session
// @Tags         auth
// @Success      204
// @Security     BearerAuth
// @Router       /logout [post]
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := user(w, r)
	if !ok {
		return
	}
	if err := h.Auth.EndSession(r); err != nil {
		h.Log.Warn("end session", zap.Int("userId", userID), zap.Error(err))
	}
	h.resolver.Forget(userID)

	prefix := viewKey(r, "")
	for key := range h.views.Items() {
		if strings.HasPrefix(key, prefix) {
			h.views.Delete(key)
		}
	}
	if err := h.Snapshots.Invalidate(r.Context(), userID); err != nil {
		h.Log.Warn("invalidate snapshot", zap.Int("userId", userID), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

type profileResp struct {
	Profile      models.UserProfile  `json:"profile"`
	Jurisdiction models.Jurisdiction `json:"jurisdiction"`
	Permissions  []string            `json:"permissions"`
}

// Profile godoc
// @Summary      Current user profile, jurisdiction and permissions
// @Tags         auth
// @Produce      json
// @Success      200  {object}  profileResp
// @Security     BearerAuth
// @Router       /profile [get]
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := user(w, r)
	if !ok {
		return
	}
	p, err := h.API.GetUserProfile(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if p.UserID == 0 {
		p.UserID = userID
	}
	role := p.RoleName
	if role == "" {
		role = middleware.GetRole(r)
	}
	writeJSON(w, http.StatusOK, profileResp{
		Profile:      p,
		Jurisdiction: p.Jurisdiction(),
		Permissions:  utils.PermissionsForRole(role),
	})
}
