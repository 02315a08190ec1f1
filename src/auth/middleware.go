package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"tradedesk/src/model"
)

type userFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Middleware authenticates API requests with a bearer token of the form
// "<user_id>.<token>". The token half is compared against the bcrypt
// hash stored on the user record. Every failure is a plain 401; the
// response never says which part failed.
func Middleware(users userFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := authenticate(r, users)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, users userFinder) (*model.User, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}

	idPart, secret, found := strings.Cut(token, ".")
	if !found || secret == "" {
		return nil, false
	}

	userID, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil {
		return nil, false
	}

	user, err := users.FindByID(r.Context(), uint(userID))
	if err != nil {
		logger.WithError(err).Error("Failed to load user for auth")
		return nil, false
	}
	if user == nil || user.APITokenHash == "" {
		return nil, false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.APITokenHash), []byte(secret)); err != nil {
		logger.WithField("user_id", user.ID).Warn("Bearer token mismatch")
		return nil, false
	}

	return user, true
}
