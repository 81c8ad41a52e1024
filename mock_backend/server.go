// Package mock_backend is an in-memory stand-in for the learning platform API
// the seeder talks to. It serves the endpoints the shipped steps use and is
// meant for local runs and end-to-end tests.
package mock_backend

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/urfave/negroni"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "mock-backend"

type Options struct {
	ClientID      string
	AdminUsername string
	AdminPassword string
	// Secret signs bearer tokens; a random one is generated when empty.
	Secret   []byte
	TokenTTL time.Duration
	// OmitTokenHeader and OmitTokenBody drop the token from the
	// authentication response, to simulate backends returning it only in
	// one place.
	OmitTokenHeader bool
	OmitTokenBody   bool
	Logger          *slog.Logger
	Now             func() time.Time
}

type Server struct {
	clientID        string
	admin           user
	adminHash       []byte
	secret          []byte
	tokenTTL        time.Duration
	omitTokenHeader bool
	omitTokenBody   bool
	store           *store
	logger          *slog.Logger
	now             func() time.Time
}

func New(opts Options) (*Server, error) {
	if opts.AdminUsername == "" || opts.AdminPassword == "" {
		return nil, fmt.Errorf("mock backend: admin username and password are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ClientID == "" {
		opts.ClientID = uuid.New().String()
	}
	if len(opts.Secret) == 0 {
		opts.Secret = make([]byte, 32)
		if _, err := rand.Read(opts.Secret); err != nil {
			return nil, fmt.Errorf("mock backend: generate secret: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("mock backend: hash admin password: %w", err)
	}

	s := &Server{
		clientID:        opts.ClientID,
		adminHash:       hash,
		secret:          opts.Secret,
		tokenTTL:        defaultTokenTTL(opts.TokenTTL),
		omitTokenHeader: opts.OmitTokenHeader,
		omitTokenBody:   opts.OmitTokenBody,
		store:           newStore(opts.Now),
		logger:          opts.Logger,
		now:             opts.Now,
	}

	admin, err := s.store.addUser(user{
		Username: opts.AdminUsername,
		Email:    opts.AdminUsername + "@example.com",
		Role:     "admin",
	})
	if err != nil {
		return nil, fmt.Errorf("mock backend: seed admin: %w", err)
	}
	s.admin = admin
	return s, nil
}

func (s *Server) ClientID() string {
	return s.clientID
}

// Routes returns a router serving every endpoint at the root.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	s.Mount(r)
	return r
}

// Mount registers every endpoint on r, which may be a path-prefixed
// subrouter. Everything except the domain lookup and authentication requires
// a bearer token.
func (s *Server) Mount(r *mux.Router) {
	r.HandleFunc("/domain/client", s.getDomainClient).Methods("GET")
	r.HandleFunc("/authenticate", s.authenticate).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(s.requireToken)
	api.HandleFunc("/v2/activities", s.createActivity).Methods("POST")
	api.HandleFunc("/v2/activities/search", s.searchActivities).Methods("POST")
	api.HandleFunc("/v2/users/search", s.searchUsers).Methods("POST")
	api.HandleFunc("/users", s.createUser).Methods("POST")
	api.HandleFunc("/users/{id}/registrations", s.userRegistrations).Methods("GET")
	api.HandleFunc("/registrations/bulk", s.bulkRegistration).Methods("POST")
}

// Handler serves the routes at the root behind the middleware.
func (s *Server) Handler() http.Handler {
	return s.Wrap(s.Routes())
}

// Wrap puts h behind the recovery and request logging middleware.
func (s *Server) Wrap(h http.Handler) http.Handler {
	printer := slogPrinter{logger: s.logger}

	recovery := negroni.NewRecovery()
	recovery.Logger = printer
	recovery.PrintStack = false

	requestLog := negroni.NewLogger()
	requestLog.ALogger = printer

	n := negroni.New()
	n.Use(recovery)
	n.Use(requestLog)
	n.UseHandler(h)
	return n
}

// slogPrinter lets negroni's middleware log through slog.
type slogPrinter struct {
	logger *slog.Logger
}

func (p slogPrinter) Println(v ...interface{}) {
	p.logger.Info(fmt.Sprint(v...))
}

func (p slogPrinter) Printf(format string, v ...interface{}) {
	p.logger.Info(fmt.Sprintf(format, v...))
}
