package handlers

import (
	"net/http"

	"github.com/cloo-solutions/askdocs/internal/api"
)

func Health(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, api.StatusResponse{Status: "ok"})
}
