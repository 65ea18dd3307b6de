package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/shared"
	"github.com/desertthunder/solify/internal/transform"
	"github.com/go-chi/chi/v5"
)

const serviceName = "Solify - Spotify Resolver API"

// ResolverHandler serves playlist and recommendation routes.
type ResolverHandler struct {
	resolver Resolver
}

func NewResolverHandler(resolver Resolver) *ResolverHandler {
	return &ResolverHandler{resolver: resolver}
}

// Routes implements [Handler]. Literal /full routes are matched before {id}.
func (h *ResolverHandler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/", h.index},
		{http.MethodGet, "/playlist", h.playlist},
		{http.MethodGet, "/playlist/full", h.playlistFull},
		{http.MethodGet, "/playlist/full/{id}", h.playlistFull},
		{http.MethodGet, "/playlist/{id}", h.playlist},
		{http.MethodGet, "/recommendations", h.recommendations},
		{http.MethodGet, "/recommendations/full", h.recommendationsFull},
		{http.MethodGet, "/recommendations/full/{id}", h.recommendationsFull},
		{http.MethodGet, "/recommendations/{id}", h.recommendations},
	}
}

func (h *ResolverHandler) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"version": shared.Version,
		"endpoints": map[string]any{
			"playlist": map[string]string{
				"byId":      "/playlist/:id",
				"byUrl":     "/playlist?url=<spotify-playlist-url>",
				"fullById":  "/playlist/full/:id?client_id=&client_secret=",
				"fullByUrl": "/playlist/full?url=<spotify-playlist-url>&client_id=&client_secret=",
			},
			"recommendations": map[string]string{
				"byId":      "/recommendations/:id?limit=5",
				"byUrl":     "/recommendations?url=<spotify-track-url>&limit=5",
				"fullById":  "/recommendations/full/:id?limit=5&client_id=&client_secret=",
				"fullByUrl": "/recommendations/full?url=<spotify-track-url>&limit=5&client_id=&client_secret=",
			},
		},
	})
}

func (h *ResolverHandler) playlist(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r, models.TypePlaylist)
	if !ok {
		return
	}

	data, err := h.resolver.FetchPlaylist(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *ResolverHandler) playlistFull(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r, models.TypePlaylist)
	if !ok {
		return
	}
	creds, ok := requestCredentials(w, r)
	if !ok {
		return
	}
	limit, ok := requestLimit(w, r, 0)
	if !ok {
		return
	}

	data, err := h.resolver.FetchPlaylistFull(r.Context(), id, creds, limit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *ResolverHandler) recommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r, models.TypeTrack)
	if !ok {
		return
	}
	limit, ok := requestLimit(w, r, 5)
	if !ok {
		return
	}

	data, err := h.resolver.FetchRecommendations(r.Context(), id, limit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *ResolverHandler) recommendationsFull(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r, models.TypeTrack)
	if !ok {
		return
	}
	creds, ok := requestCredentials(w, r)
	if !ok {
		return
	}
	limit, ok := requestLimit(w, r, 5)
	if !ok {
		return
	}

	data, err := h.resolver.FetchRecommendationsFull(r.Context(), id, limit, creds)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// requestID reads the {id} path parameter or the url query parameter and
// extracts a valid id of kind. On failure it writes a 400 and returns false.
func requestID(w http.ResponseWriter, r *http.Request, kind string) (string, bool) {
	raw := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	if raw == "" {
		raw = r.URL.Query().Get("url")
		if raw == "" {
			writeError(w, http.StatusBadRequest, "Missing url parameter")
			return "", false
		}
	}

	id := transform.ExtractID(raw, kind)
	if !transform.ValidID(id) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Invalid %s id", kind),
			"id":    id,
			"raw":   raw,
		})
		return "", false
	}
	return id, true
}

// requestCredentials reads client credentials from the query string, then
// the X-Client-* headers, then the X-Spotify-Client-* headers.
func requestCredentials(w http.ResponseWriter, r *http.Request) (models.Credentials, bool) {
	q := r.URL.Query()
	creds := models.Credentials{
		ClientID:     firstNonEmpty(q.Get("client_id"), r.Header.Get("X-Client-ID"), r.Header.Get("X-Spotify-Client-ID")),
		ClientSecret: firstNonEmpty(q.Get("client_secret"), r.Header.Get("X-Client-Secret"), r.Header.Get("X-Spotify-Client-Secret")),
	}
	if !creds.Complete() {
		writeError(w, http.StatusBadRequest, "client_id and client_secret are required in the request")
		return creds, false
	}
	return creds, true
}

func requestLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid limit %q", raw))
		return 0, false
	}
	return limit, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// StatusFor maps a resolver error to the HTTP status returned to callers.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrMissingCredentials),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrUpstreamAuth),
		errors.Is(err, shared.ErrAPIRequest),
		errors.Is(err, shared.ErrEnrichment):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	writeError(w, StatusFor(err), err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
