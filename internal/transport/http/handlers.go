package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"jeopardy/internal/app"
	"jeopardy/internal/domain"
)

const (
	// maxCreateBodyBytes bounds pasted source text
	maxCreateBodyBytes = 1 << 20

	qrSize = 320
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateGameRequest selects the board content of a new game
type CreateGameRequest struct {
	Topic      string `json:"topic"`
	SourceText string `json:"sourceText"`
}

// CreateGameResponse is the response for game creation
type CreateGameResponse struct {
	Code    string `json:"code"`
	JoinURL string `json:"joinUrl"`
}

// GameExistsResponse is the response for checking if a game exists
type GameExistsResponse struct {
	Exists bool `json:"exists"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveGames  int `json:"activeGames"`
	TotalPlayers int `json:"totalPlayers"`
}

// handleCreateGame handles POST /api/games
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	body := http.MaxBytesReader(w, r.Body, maxCreateBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session, err := s.hub.CreateGame(r.Context(), domain.ContentSource{
		Topic: strings.TrimSpace(req.Topic),
		Text:  req.SourceText,
	})
	if err != nil {
		if errors.Is(err, domain.ErrContentGeneration) {
			s.sendError(w, http.StatusUnprocessableEntity, "CONTENT_FAILED", err.Error())
		} else {
			s.logger.Error().Err(err).Msg("game creation failed")
			s.sendError(w, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create game")
		}
		return
	}

	s.sendSuccess(w, &CreateGameResponse{
		Code:    session.Code(),
		JoinURL: s.joinURL(r, session.Code()),
	})
}

// handleGetGame handles GET /api/games/{code}
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.sendSuccess(w, session.Info())
}

// handleGameExists handles GET /api/games/{code}/exists
func (s *Server) handleGameExists(w http.ResponseWriter, r *http.Request) {
	_, err := s.hub.GetSession(gameCode(r))
	s.sendSuccess(w, &GameExistsResponse{
		Exists: err == nil,
	})
}

// handleGameQR handles GET /api/games/{code}/qr.png with the join link as a PNG
func (s *Server) handleGameQR(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	png, err := qrcode.Encode(s.joinURL(r, session.Code()), qrcode.Medium, qrSize)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "QR generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveGames:  s.hub.SessionCount(),
		TotalPlayers: s.hub.TotalPlayerCount(),
	})
}

// lookup resolves the {code} path parameter, answering 404 when absent
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*app.GameSession, bool) {
	session, err := s.hub.GetSession(gameCode(r))
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			s.sendError(w, http.StatusNotFound, "GAME_NOT_FOUND", "Game not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return nil, false
	}
	return session, true
}

// joinURL builds the player join link, preferring the configured public URL
func (s *Server) joinURL(r *http.Request, code string) string {
	base := s.config.Server.PublicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + code
}

func gameCode(r *http.Request) string {
	return strings.ToUpper(chi.URLParam(r, "code"))
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
