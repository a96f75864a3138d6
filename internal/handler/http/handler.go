package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/service"
	"github.com/moviecatalog/catalog/pkg/httputil"
	"github.com/moviecatalog/catalog/pkg/middleware"
	"github.com/moviecatalog/catalog/pkg/pagination"
	"github.com/moviecatalog/catalog/pkg/validator"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// decode reads and validates a JSON body into dst. On failure it writes the
// 400 response and returns false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	return true
}

// pathID reads a UUID path parameter. A malformed value is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, name))
	if !ok {
		return "", false
	}
	return id.String(), true
}

// principal returns the caller stored by the Auth middleware. Routes
// without Auth get the zero Principal, which may modify nothing.
func principal(r *http.Request) domain.Principal {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return domain.Principal{}
	}
	return domain.Principal{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}
}

func writePage[T any](w http.ResponseWriter, items []T, total int, params pagination.Params) {
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(items, total, params.Page, params.PerPage))
}

// tokenValidator bridges access-token validation to the Auth middleware.
func tokenValidator(accounts *service.AccountService) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		p, err := accounts.Authenticate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: p.UserID, Username: p.Username, Role: p.Role}, nil
	}
}
