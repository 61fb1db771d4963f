package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// RequireCompany rejects tokens that are not scoped to a company.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, attendance.ErrCompanyIDRequired)
			return
		}

		companyID, ok := claims[jwt.ClaimCompanyID].(string)
		if !ok || companyID == "" {
			response.HandleError(w, attendance.ErrCompanyIDRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
