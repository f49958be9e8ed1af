package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/vanshika/campusnav/internal/campus"
	"github.com/vanshika/campusnav/internal/directory"
	"github.com/vanshika/campusnav/internal/mapsource"
	"github.com/vanshika/campusnav/internal/service"
)

const (
	defaultNearestK = 1
	maxNearestK     = 50
	geoJSONType     = "application/geo+json"
	maxBodyBytes    = 1 << 20
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger    *slog.Logger
	nav       *service.NavigationService
	directory *service.DirectoryService
}

// NewAPIHandlers constructs an APIHandlers instance. directory may be nil when the
// deployment serves routes only.
func NewAPIHandlers(logger *slog.Logger, nav *service.NavigationService, dir *service.DirectoryService) *APIHandlers {
	return &APIHandlers{
		logger:    logger,
		nav:       nav,
		directory: dir,
	}
}

func (h *APIHandlers) handleMapData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	doc, err := h.nav.MapDocument()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "campus map not loaded")
		return
	}
	respondJSON(w, http.StatusOK, mapsource.Denormalize(doc))
}

func (h *APIHandlers) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	origin := query.Get("origin")
	dest := query.Get("dest")

	route, err := h.nav.Route(r.Context(), origin, dest)
	if err != nil {
		h.writeRouteError(w, err, origin, dest)
		return
	}

	if strings.EqualFold(query.Get("format"), "geojson") {
		body, err := campus.RouteGeoJSON(route)
		if err != nil {
			h.logger.Error("failed to encode route geojson", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to encode route")
			return
		}
		w.Header().Set("Content-Type", geoJSONType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	respondJSON(w, http.StatusOK, newRouteResponse(route))
}

func (h *APIHandlers) writeRouteError(w http.ResponseWriter, err error, origin, dest string) {
	switch {
	case errors.Is(err, service.ErrEmptyID), errors.Is(err, campus.ErrUnknownWaypoint):
		writeError(w, http.StatusBadRequest, "invalid origin/destination: "+err.Error())
	case errors.Is(err, service.ErrMapNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "campus map not loaded")
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("route search timed out", "origin", origin, "dest", dest)
		writeError(w, http.StatusGatewayTimeout, "route search timed out")
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		w.WriteHeader(499)
	default:
		h.logger.Error("route search failed", "error", err, "origin", origin, "dest", dest)
		writeError(w, http.StatusInternalServerError, "route search failed")
	}
}

func (h *APIHandlers) handleNearest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	x, errX := strconv.ParseFloat(query.Get("x"), 64)
	y, errY := strconv.ParseFloat(query.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "numeric x and y are required")
		return
	}
	k := parseInt(query.Get("k"), defaultNearestK)
	if k <= 0 || k > maxNearestK {
		writeError(w, http.StatusBadRequest, "k must be between 1 and "+strconv.Itoa(maxNearestK))
		return
	}

	steps, err := h.nav.Nearest(x, y, k)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "campus map not loaded")
		return
	}
	respondJSON(w, http.StatusOK, nearestResponse{Waypoints: toWaypointDTOs(steps)})
}

func (h *APIHandlers) handleClasses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	matricula := strings.Trim(strings.TrimPrefix(r.URL.Path, "/classes/"), "/")
	if matricula == "" {
		writeError(w, http.StatusBadRequest, "matricula is required")
		return
	}

	schedule, err := h.directory.Classes(r.Context(), matricula)
	if errors.Is(err, directory.ErrNotFound) {
		writeErrorKey(w, http.StatusNotFound, "erro", "Aluno não encontrado")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch classes", "error", err, "matricula", matricula)
		writeError(w, http.StatusInternalServerError, "failed to fetch classes")
		return
	}

	respondJSON(w, http.StatusOK, classesResponse{
		Matricula: schedule.Matricula,
		Name:      schedule.Name,
		Classes:   directory.ToClassWire(schedule.Classes),
	})
}

func (h *APIHandlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload loginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.directory.Login(r.Context(), payload.Matricula)
	switch {
	case errors.Is(err, service.ErrEmptyMatricula):
		writeError(w, http.StatusBadRequest, "Matrícula não informada")
		return
	case errors.Is(err, service.ErrUnknownStudent):
		writeError(w, http.StatusUnauthorized, "Matrícula não encontrada")
		return
	case err != nil:
		h.logger.Error("student login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Matricula: res.Matricula, Name: res.Name, Role: res.Role})
}

func (h *APIHandlers) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload adminLoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.directory.AdminLogin(r.Context(), payload.Username, payload.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("admin login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, adminLoginResponse{Username: profile.Username, Name: profile.Name, Role: "admin"})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeErrorKey(w, status, "error", msg)
}

func writeErrorKey(w http.ResponseWriter, status int, key, msg string) {
	respondJSON(w, status, map[string]string{
		key: msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
