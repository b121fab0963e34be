package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/sealedapi/core/logger"
	"github.com/dmitrymomot/sealedapi/middleware"
)

type ctxKey struct{}

// UserID derives the stable user ID the mock assigns to email.
func UserID(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		writeReply(w, http.StatusBadRequest, "email and password are required", nil)
		return
	}
	if in.Password != a.cfg.Password {
		writeReply(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	userID := UserID(in.Email)
	expiresAt := a.cfg.Now().Add(a.cfg.TokenTTL).UTC().Truncate(time.Second)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(a.cfg.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}).SignedString(a.cfg.SigningKey)
	if err != nil {
		a.cfg.Logger.ErrorContext(r.Context(), "failed to sign token", logger.Component("mockapi"), logger.Error(err))
		writeReply(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	requestID, _ := middleware.GetRequestID(r.Context())
	a.cfg.Logger.InfoContext(r.Context(), "user logged in",
		logger.Component("mockapi"),
		logger.UserID(userID),
		logger.RequestID(requestID),
	)

	writeReply(w, http.StatusOK, "Login successful", map[string]string{
		"userId":     userID,
		"token":      token,
		"expiryDate": expiresAt.Format(time.RFC3339),
	})
}

func (a *api) logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(ctxKey{}).(string)
	a.cfg.Logger.InfoContext(r.Context(), "user logged out",
		logger.Component("mockapi"),
		logger.UserID(userID),
	)
	writeReply(w, http.StatusOK, "Logout successful", nil)
}

// authenticated rejects requests without a valid bearer token and stores the token
// subject in the request context.
func (a *api) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.verify(r.Header.Get("Authorization"))
		if err != nil {
			a.cfg.Logger.DebugContext(r.Context(), "request rejected",
				logger.Component("mockapi"),
				logger.Path(r.URL.Path),
				logger.Error(err),
			)
			writeReply(w, http.StatusUnauthorized, ErrUnauthorized.Error(), nil)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func (a *api) verify(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", ErrUnauthorized
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.cfg.SigningKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.cfg.Now),
	)
	if err != nil {
		return "", errors.Join(ErrUnauthorized, err)
	}
	return claims.Subject, nil
}
