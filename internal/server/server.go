package server

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
)

type Action string

type Method string

const (
	Api Action = "api"

	GET  Method = "GET"
	POST Method = "POST"
)

// ConfigKey is the key of the server config under infra/config.
const ConfigKey = "server"

// Config holds the server settings.
type Config struct {
	Port int `json:"port" mapstructure:"port"`
	// Origin is the origin allowed for cross-origin requests.
	Origin string `json:"origin" mapstructure:"origin"`
	// MaxUpload is the number of bytes of an upload kept in memory, the rest goes to temporary files.
	MaxUpload int64 `json:"max_upload" mapstructure:"max_upload"`
	// SpoolDir is where uploads are spooled for file based analysis, the system temp dir if empty.
	SpoolDir string `json:"spool_dir" mapstructure:"spool_dir"`
}

// DefaultConfig returns the default server config.
func DefaultConfig() Config {
	return Config{
		Port:      8080,
		Origin:    "http://localhost:4200",
		MaxUpload: 32 << 20,
	}
}

type Handler func(r *http.Request) ([]byte, int, error)

type Route struct {
	Action Action
	Path   string
	Method Method
	Exec   Handler
}

type Server struct {
	name     string
	port     int
	origin   string
	debug    bool
	routes   []Route
	handlers map[string]http.Handler
}

func NewServer(name string, port int) *Server {
	return &Server{
		name:     name,
		port:     port,
		routes:   make([]Route, 0),
		handlers: make(map[string]http.Handler),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() {
	s.debug = true
}

// AllowOrigin allows cross-origin requests from the given origin.
func (s *Server) AllowOrigin(origin string) *Server {
	s.origin = origin
	return s
}

// AddRoute adds the given route to the server
func (s *Server) AddRoute(method Method, action Action, path string, exec Handler) *Server {
	s.routes = append(s.routes, Route{
		Action: action,
		Path:   path,
		Method: method,
		Exec:   exec,
	})
	return s
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

// Handle serves the given path with a plain http handler e.g. for metrics.
func (s *Server) Handle(path string, handler http.Handler) *Server {
	s.handlers[path] = handler
	return s
}

func (s *Server) handle(method Method, handler Handler) func(w http.ResponseWriter, r *http.Request) {
	name := runtime.FuncForPC(reflect.ValueOf(handler).Pointer()).Name()
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if s.origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.origin)
			w.Header().Set("Access-Control-Allow-Methods", fmt.Sprintf("%s, OPTIONS", method))
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		requestMethod := Method(r.Method)
		switch requestMethod {
		case method:
			b, code, err := handler(r)
			if err != nil {
				s.error(w, err)
			} else if code != http.StatusOK {
				s.code(w, b, code)
			} else {
				s.respond(w, b)
			}
		case "OPTIONS":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotImplemented)
		}
		if s.debug {
			log.Debug().
				Str("handler", name).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Float64("duration", time.Since(start).Seconds()).
				Msg("request")
		}
	}
}

// Mux returns the handler of all the server routes.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	for _, route := range s.routes {
		if route.Path != "" {
			mux.HandleFunc(fmt.Sprintf("/%s/%s", route.Action, route.Path), s.handle(route.Method, route.Exec))
		} else {
			mux.HandleFunc(fmt.Sprintf("/%s", route.Action), s.handle(route.Method, route.Exec))
		}
	}
	for path, handler := range s.handlers {
		mux.Handle(path, handler)
	}
	return mux
}

// Run starts the server
func (s *Server) Run() error {
	log.Info().Str("server", s.name).Int("port", s.port).Msg("starting server")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.Mux()); err != nil {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) code(w http.ResponseWriter, b []byte, code int) {
	w.WriteHeader(code)
	s.respond(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("error for http request")
	s.code(w, []byte(err.Error()), http.StatusInternalServerError)
}

func Live() Route {
	return Route{
		Action: Api,
		Method: GET,
		Exec: func(r *http.Request) (payload []byte, code int, err error) {
			return []byte{}, 200, nil
		},
	}
}
