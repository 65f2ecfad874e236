// internal/server/server.go

// Package server exposes the catalog over a read-only HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/capitolscrape/congressvideo/internal/database"
	"github.com/capitolscrape/congressvideo/internal/monitoring"
	"github.com/capitolscrape/congressvideo/internal/utils"
)

// Server serves catalog queries. It never writes to the database.
type Server struct {
	db  *database.DB
	log utils.Logger
}

// New creates a server over an open database handle.
func New(db *database.DB, log utils.Logger) *Server {
	return &Server{db: db, log: log.WithField("component", "server")}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/committees", s.handleCommittees).Methods(http.MethodGet)
	api.HandleFunc("/hearings/{id:[0-9]+}/formats", s.handleHearingFormats).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", monitoring.Handler()).Methods(http.MethodGet)

	return r
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to aggregate stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCommittees(w http.ResponseWriter, r *http.Request) {
	chamber := r.URL.Query().Get("chamber")
	if chamber != "" && chamber != database.ChamberHouse && chamber != database.ChamberSenate {
		s.writeError(w, http.StatusBadRequest, "chamber must be house or senate")
		return
	}

	committees, err := s.db.GetCommittees(chamber)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load committees")
		return
	}
	if committees == nil {
		committees = []database.Committee{}
	}
	s.writeJSON(w, http.StatusOK, committees)
}

func (s *Server) handleHearingFormats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid hearing id")
		return
	}

	formats, err := s.db.GetVideoFormats(id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load video formats")
		return
	}
	if formats == nil {
		formats = []database.VideoFormat{}
	}
	s.writeJSON(w, http.StatusOK, formats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
