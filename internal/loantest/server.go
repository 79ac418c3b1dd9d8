// Package loantest provides an in-memory stand-in for the remote loan API.
// Tests point a client at Server.URL, seed loans, and override individual
// routes to simulate 404s, malformed bodies or odd status codes.
package loantest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/svmahh/25Jun-API-medical-classwork/internal/types"
)

// Response is a canned reply that replaces a route's normal behaviour.
type Response struct {
	Status int
	Body   string
}

// Server is an httptest.Server serving the loan routes.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	loans     []types.Loan
	nextID    int
	overrides map[string]Response
	hits      map[string]int
}

// New starts a server with no loans. Call Close when done.
func New() *Server {
	s := &Server{
		nextID:    1,
		overrides: make(map[string]Response),
		hits:      make(map[string]int),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.record)

	r.HandleFunc("/loans/", s.listLoans).Methods(http.MethodGet)
	r.HandleFunc("/loans/", s.createLoan).Methods(http.MethodPost)
	r.HandleFunc("/loans/member/{memberId}", s.listMemberLoans).Methods(http.MethodGet)
	r.HandleFunc("/loans/{id:[0-9]+}", s.getLoan).Methods(http.MethodGet)
	return r
}

// Seed appends loans in order. Loans with a zero ID get the next free one.
func (s *Server) Seed(loans ...types.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range loans {
		if l.ID == 0 {
			l.ID = s.nextID
		}
		if l.ID >= s.nextID {
			s.nextID = l.ID + 1
		}
		s.loans = append(s.loans, l)
	}
}

// Loans returns a copy of the stored loans.
func (s *Server) Loans() []types.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Loan(nil), s.loans...)
}

// Override makes method+path answer with resp instead of the normal handler.
// path is the request path as sent, e.g. "/loans/7".
func (s *Server) Override(method, path string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = resp
}

// Hits returns how many requests reached method+path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// TotalHits returns the number of requests received on any route.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.hits[key]++
		o, ok := s.overrides[key]
		s.mu.Unlock()
		if ok {
			w.WriteHeader(o.Status)
			_, _ = w.Write([]byte(o.Body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listLoans(w http.ResponseWriter, r *http.Request) {
	out := append([]types.Loan{}, s.Loans()...)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listMemberLoans(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["memberId"]
	out := []types.Loan{}
	for _, l := range s.Loans() {
		if l.MemberID == memberID {
			out = append(out, l)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getLoan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	for _, l := range s.Loans() {
		if l.ID == id {
			writeJSON(w, http.StatusOK, l)
			return
		}
	}
	writeError(w, http.StatusNotFound, "loan not found")
}

func (s *Server) createLoan(w http.ResponseWriter, r *http.Request) {
	var req types.LoanCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	loan := types.Loan{ID: s.nextID, Amount: req.Amount, MemberID: req.MemberID, Message: req.Message}
	s.nextID++
	s.loans = append(s.loans, loan)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, loan)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": http.StatusText(status), "code": status, "message": msg})
}
