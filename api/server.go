package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ValentinKolb/serjs/lib/cache"
	"github.com/ValentinKolb/serjs/lib/common"
	"github.com/ValentinKolb/serjs/lib/serializer"
	"github.com/ValentinKolb/serjs/lib/tagged"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("api")

// defaultMaxBodyBytes is used if the config sets no body limit
const defaultMaxBodyBytes = 1 << 20

// defaultMaxDepth is used if the config sets no nesting limit
const defaultMaxDepth = 512

// shutdownTimeout is the time in-flight requests get after the server context is done
const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API
type Server struct {
	serializer serializer.ISerializer
	cache      cache.IRenderCache
	config     common.ServerConfig
}

// NewServer creates a Server rendering with s. A nil cache disables caching.
func NewServer(s serializer.ISerializer, c cache.IRenderCache, config common.ServerConfig) *Server {
	if c == nil {
		c = cache.NopCache{}
	}
	if config.MaxBodyKB <= 0 {
		config.MaxBodyKB = defaultMaxBodyBytes / 1024
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = defaultMaxDepth
	}
	return &Server{
		serializer: s,
		cache:      c,
		config:     config,
	}
}

// Handler returns the routes of the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.HandlerFunc) {
		if s.config.LogLevel == "debug" {
			h = loggerMiddleware(h)
		}
		mux.HandleFunc(pattern, h)
	}

	handle("POST /serialize", s.handleSerialize)
	handle("GET /metrics", handleMetrics)
	handle("GET /healthz", handleHealth)
	return mux
}

// ListenAndServe serves the API on the configured endpoint until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Endpoint,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		Logger.Infof("Starting HTTP server on %s", s.config.Endpoint)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		Logger.Infof("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// --------------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------------

// handleSerialize renders the tagged document in the request body as JavaScript
func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	opts, format, err := s.parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Read request body
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes()))
	defer r.Body.Close()

	// Check if body could be read
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	key := cache.Key(string(format), body, opts)
	js, hit, err := s.cache.Get(r.Context(), key)
	if err != nil {
		Logger.Warningf("cache lookup failed: %v", err)
	}

	if !hit {
		doc, err := tagged.DecodeDocument(body, format)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.limits().Check(doc); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		js, err = s.serializer.Serialize(doc, serializer.WithOptions(opts))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		if err := s.cache.Set(r.Context(), key, js); err != nil {
			Logger.Warningf("cache store failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}

	// Write response
	if _, err = io.WriteString(w, js); err != nil {
		Logger.Debugf("failed to write response: %v", err)
	}
}

// limits bounds the output of a request. Holes of sparse arrays may add up to
// the body size, so a request can't render much more than a dense document would.
func (s *Server) limits() tagged.Limits {
	return tagged.Limits{
		MaxDepth:        s.config.MaxDepth,
		MaxSparseLength: int(s.config.MaxBodyBytes()),
	}
}

// parseQuery returns the serializer options and the document format of r
func (s *Server) parseQuery(r *http.Request) (serializer.Options, tagged.Format, error) {
	q := r.URL.Query()
	opts := s.config.Options

	if q.Has("space") {
		space := q.Get("space")
		if n, err := strconv.Atoi(space); err == nil {
			serializer.WithSpace(n)(&opts)
		} else {
			serializer.WithSpace(space)(&opts)
		}
	}

	for name, target := range map[string]*bool{
		"unsafe":         &opts.Unsafe,
		"isJSON":         &opts.IsJSON,
		"ignoreFunction": &opts.IgnoreFunction,
	} {
		if !q.Has(name) {
			continue
		}
		value := q.Get(name)
		if value == "" {
			// a bare flag like ?unsafe means true
			*target = true
			continue
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return opts, "", errors.New("invalid value for " + name + ": " + value)
		}
		*target = b
	}

	format, err := tagged.ParseFormat(q.Get("format"))
	if err != nil {
		return opts, "", err
	}
	return opts, format, nil
}

func handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	metrics.WritePrometheus(w, true)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	_, _ = io.WriteString(w, "ok\n")
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create custom response writer to capture status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Process request
		next.ServeHTTP(rw, r)

		// Log the request
		duration := time.Since(start)
		Logger.Debugf("%s %s => %d took %s", r.Method, r.URL.Path, rw.statusCode, duration)
	}
}
