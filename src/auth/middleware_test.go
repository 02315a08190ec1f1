package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"tradedesk/src/model"
)

type fakeUserFinder struct {
	user *model.User
}

func (f *fakeUserFinder) FindByID(_ context.Context, id uint) (*model.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, nil
}

func TestMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("valid-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}

	users := &fakeUserFinder{user: &model.User{ID: 7, Email: "trader@example.com", APITokenHash: string(hash)}}

	var seenUser *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(users)(next)

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer 7.valid-token", http.StatusOK},
		{"wrong secret", "Bearer 7.other-token", http.StatusUnauthorized},
		{"unknown user", "Bearer 99.valid-token", http.StatusUnauthorized},
		{"malformed token", "Bearer no-dot-here", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seenUser = nil
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantStatus == http.StatusOK && (seenUser == nil || seenUser.ID != 7) {
				t.Fatalf("expected user 7 in context, got %+v", seenUser)
			}
		})
	}
}
