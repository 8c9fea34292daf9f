// Package fakeapi is an in-process stand-in for the guide API. It keeps users
// and chat history in memory and checks X-User-ID the way the real service
// does, so client code can be exercised end to end without the backend.
package fakeapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/amiskov/guide-client/pkg/chat"
)

type account struct {
	ID       int
	Username string
	Email    string
	Password string
	Created  time.Time
}

type Server struct {
	mu       sync.Mutex
	nextID   int
	users    map[string]*account
	byID     map[string]*account
	revoked  map[string]bool
	messages map[string][]chat.Message

	ttl time.Duration
	now func() time.Time

	router *mux.Router
}

type Option func(*Server)

// WithSessionTTL sets the lifetime announced in login answers. Default 1h.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) {
		s.ttl = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		nextID:   1,
		users:    make(map[string]*account),
		byID:     make(map[string]*account),
		revoked:  make(map[string]bool),
		messages: make(map[string][]chat.Message),
		ttl:      time.Hour,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Open
	api.HandleFunc("/health", s.Health).Methods("GET")
	api.HandleFunc("/config", s.Config).Methods("GET")
	api.HandleFunc("/auth/register", s.Register).Methods("POST")
	api.HandleFunc("/auth/login", s.LogIn).Methods("POST")
	api.HandleFunc("/search", s.Search).Methods("POST")

	// Require X-User-ID
	private := api.NewRoute().Subrouter()
	private.Use(s.requireUser)
	private.HandleFunc("/auth/user/{id}", s.UserInfo).Methods("GET")
	private.HandleFunc("/chat/send", s.SendMessage).Methods("POST")
	private.HandleFunc("/chat/history", s.History).Methods("GET")
	private.HandleFunc("/chat/latest", s.Latest).Methods("GET")
	private.HandleFunc("/upload", s.Upload).Methods("POST")
	private.HandleFunc("/voice/recognize", s.Recognize).Methods("POST")
	private.HandleFunc("/voice/synthesize", s.Synthesize).Methods("POST")
	private.HandleFunc("/recognize", s.RecognizeArtifact).Methods("POST")

	r.Use(accessLog)
	return r
}

// Revoke makes the server answer 401 for userID until it logs in again.
func (s *Server) Revoke(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[userID] = true
}

// AddUser registers an account directly and returns its id.
func (s *Server) AddUser(username, email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUser(username, email, password)
}

func (s *Server) Messages(userID string) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Message(nil), s.messages[userID]...)
}

func (s *Server) addUser(username, email, password string) string {
	a := &account{
		ID:       s.nextID,
		Username: username,
		Email:    email,
		Password: password,
		Created:  s.now(),
	}
	s.nextID++
	id := strconv.Itoa(a.ID)
	s.users[username] = a
	s.byID[id] = a
	return id
}
