// Package api exposes the company lookup service over HTTP.
package api

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/match"
	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/store"
)

// Server answers fuzzy company lookups against the current snapshot.
type Server struct {
	router   chi.Router
	engine   *match.Engine
	holder   *store.Holder
	minScore float64
}

// NewServer builds the router. minScore below or equal to zero disables the
// score threshold.
func NewServer(engine *match.Engine, holder *store.Holder, minScore float64) *Server {
	s := &Server{
		engine:   engine,
		holder:   holder,
		minScore: minScore,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(recoverMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.health)
	r.Get("/company/search", s.search)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

type searchResponse struct {
	Domain         string                      `json:"domain"`
	CommercialName string                      `json:"company_commercial_name"`
	LegalName      string                      `json:"company_legal_name,omitempty"`
	Phones         []string                    `json:"phones"`
	Socials        map[model.Platform][]string `json:"social_links"`
	Address        string                      `json:"address,omitempty"`
	MatchScore     float64                     `json:"match_score"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	snap := s.holder.Current()
	payload := map[string]any{"status": "ok", "profiles": 0}
	if snap != nil {
		payload["profiles"] = len(snap.Profiles)
		payload["run_id"] = snap.RunID
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := model.MatchQuery{
		Name:     q.Get("name"),
		Domain:   q.Get("domain"),
		Phone:    q.Get("phone"),
		Facebook: q.Get("facebook"),
	}
	// An all-empty query is legal; it scores zero against every profile and
	// falls out through the tie-break.
	snap := s.holder.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot loaded")
		return
	}

	result := s.engine.Search(query, snap.Profiles)
	if result == nil || (s.minScore > 0 && result.Score < s.minScore) {
		writeError(w, http.StatusNotFound, "no matching company found")
		return
	}

	p := result.Profile
	writeJSON(w, http.StatusOK, searchResponse{
		Domain:         p.Domain,
		CommercialName: p.CommercialName,
		LegalName:      p.LegalName,
		Phones:         emptyIfNil(p.Phones),
		Socials:        emptySocialsIfNil(p.Socials),
		Address:        p.Address,
		MatchScore:     roundScore(result.Score),
	})
}

func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptySocialsIfNil(m map[model.Platform][]string) map[model.Platform][]string {
	if m == nil {
		return map[model.Platform][]string{}
	}
	return m
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		zap.L().Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.L().Error("panic recovered", zap.Any("error", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
