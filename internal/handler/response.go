package handler

import (
	"net/http"

	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/httputil"
	"github.com/ineffable/agency-server/internal/middleware"
	"github.com/ineffable/agency-server/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// identity returns the acting identity, writing a 401 when the route was
// mounted without the auth middleware.
func identity(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized())
	}
	return id, ok
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		writeError(w, err)
		return false
	}
	return true
}
