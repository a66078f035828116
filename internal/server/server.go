package server

import (
	"encoding/json"
	"io"
	"net/http"

	"knowledgescout/internal/ingest"
	"knowledgescout/internal/search"
)

// maxMultipartMemory is the in-memory threshold for multipart parsing;
// larger uploads spill to temp files rather than being rejected.
const maxMultipartMemory = 32 << 20

type Server struct {
	ingester *ingest.Service
	searcher *search.Service
}

func New(ingester *ingest.Service, searcher *search.Service) *Server {
	return &Server{ingester: ingester, searcher: searcher}
}

// Handler builds the HTTP surface: /upload, /query, /health, all behind
// CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.uploadHandler)
	mux.HandleFunc("/query", s.queryHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return cors(requestLog(mux))
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, err)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if err := s.ingester.Ingest(r.Context(), header.Filename, data, mimeType); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "File uploaded and processed"})
}

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Answers []string `json:"answers"`
}

func (s *Server) queryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}

	answers, err := s.searcher.Query(r.Context(), req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{Answers: answers})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps every handler failure to the generic error body. The
// raw message travels to the caller; there are no structured codes.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
