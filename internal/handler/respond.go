package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/emirhanunsal/MovieSuggest/internal/errs"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondErr mapea el kind del error al status HTTP. El mapeo vive acá y
// en ningún otro lado: los services no saben de HTTP.
func respondErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	switch errs.KindOf(err) {
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindConflict:
		status = http.StatusConflict
	case errs.KindValidation:
		status = http.StatusBadRequest
	case errs.KindUpstream:
		status = http.StatusBadGateway
	default:
		// No filtramos detalles internos al cliente.
		slog.Error("error interno", "error", err)
		msg = "internal error"
	}

	writeJSON(w, status, errorResponse{Error: errs.CodeOf(err), Message: msg})
}
