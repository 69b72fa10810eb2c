// Package api serves the ledger REST contract the fintrack UI consumes:
// list, create and delete transactions plus a summary.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/storage"
)

const maxBodyBytes = 64 << 10

type Server struct {
	http.Server
	backend backend.Backend
	logger  *log.Logger

	shutdownOnce sync.Once
}

func NewServer(addr string, b backend.Backend, logger *log.Logger) (*Server, error) {
	if b == nil {
		return nil, errors.New("api server: backend is required")
	}
	if logger == nil {
		logger = log.Discard()
	}
	ips, err := security.NewIPResolver()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		backend: b,
		logger:  logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/transactions", s.handleList)
	mux.HandleFunc("POST /api/transactions", s.handleCreate)
	mux.HandleFunc("GET /api/transactions/summary", s.handleSummary)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDelete)

	headers := security.NewHeadersMiddleware(security.APIHeadersConfig())
	tracer := trace.NewMiddleware(ips.ClientIP)
	detect := security.NewDetector(ips)

	var handler http.Handler = mux
	handler = cors(handler)
	handler = headers.Middleware(handler)
	handler = detect.Middleware(func(r *http.Request, clientIP, reason string) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
			log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path, "reason", reason)
	})(handler)
	handler = tracer.Middleware(handler)
	handler = log.Middleware(logger)(handler)
	s.Handler = handler

	return s, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// cors allows any origin, as the UI may be served from elsewhere.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	txs, err := s.backend.List(r.Context())
	if err != nil {
		s.internalError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var n core.NewTransaction
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&n); err != nil {
		writeError(w, http.StatusBadRequest, "malformed transaction: "+err.Error())
		return
	}
	n.Type = core.TransactionType(strings.ToUpper(string(n.Type)))
	if err := n.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.backend.Create(r.Context(), n)
	if err != nil {
		s.internalError(w, r, log.OpCreate, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		log.FieldTxID, t.ID, log.FieldTxType, t.Type.String(), log.FieldAmount, t.Amount.String())
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.backend.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.internalError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	totals, err := s.backend.Summary(r.Context())
	if err != nil {
		s.internalError(w, r, log.OpSummary, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.LogError(r.Context(), "Ledger operation failed", err, log.ComponentBackend, op, nil)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
