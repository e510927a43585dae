// Package intake is the participant-facing HTTP server: the join page, its
// WebSocket, a JSON fallback and the join QR code.
package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"

	"collectivecanvas/pkg/canvas/history"
	"collectivecanvas/pkg/canvas/submission"
	"collectivecanvas/pkg/engine/terminal"
)

const timeout = 10 * time.Second

// Sink receives accepted submissions. *engine.Engine satisfies it.
type Sink interface {
	Submit(s submission.Submission)
}

// Config holds the server settings.
type Config struct {
	Bind      string
	Port      int
	PublicURL string // overrides the advertised base URL
	CanvasID  string
	Version   string
	Cooldown  time.Duration
}

// Server serves one canvas.
type Server struct {
	cfg      Config
	log      *terminal.Logger
	sink     Sink
	store    history.Store
	cooldown *submission.Cooldown
	now      func() time.Time
	router   *httprouter.Router

	qrOnce sync.Once
	qrPNG  []byte
	qrErr  error
}

// New builds the server and its routes.
func New(cfg Config, sink Sink, store history.Store, log *terminal.Logger) *Server {
	if cfg.Cooldown == 0 {
		cfg.Cooldown = submission.CooldownPeriod
	}
	if store == nil {
		store = history.NewMemoryStore()
	}
	if log == nil {
		log = terminal.Discard()
	}
	s := &Server{
		cfg:      cfg,
		log:      log,
		sink:     sink,
		store:    store,
		cooldown: submission.NewCooldown(cfg.Cooldown),
		now:      time.Now,
		router:   httprouter.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	mux := s.router
	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		s.log.Errorf("SERVE: panic serving %s: %v", r.URL.Path, i)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(w)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "An error has occurred. Please try again.\n")
	}

	mux.GET("/", s.serveRoot)
	mux.GET("/healthz", s.serveHealthCheck)
	mux.GET("/version", s.serveVersion)
	mux.GET("/assets/:file", s.serveAsset)
	mux.GET("/join/:canvas", s.canvasOnly(s.serveJoinPage))
	mux.GET("/join/:canvas/ws", s.canvasOnly(s.serveWS))
	mux.POST("/join/:canvas/submit", s.canvasOnly(s.serveSubmit))
	mux.GET("/join/:canvas/qr.png", s.canvasOnly(s.serveQR))
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// canvasOnly rejects requests for any canvas other than the served one.
func (s *Server) canvasOnly(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		if p.ByName("canvas") != s.cfg.CanvasID {
			http.NotFound(w, r)
			return
		}
		h(w, r, p)
	}
}

func securityHeaders(w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; connect-src 'self' ws: wss:")
}

func realIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" && net.ParseIP(ip) != nil {
		host = ip
	}
	return host
}

func (s *Server) serveRoot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, "/join/"+s.cfg.CanvasID, http.StatusTemporaryRedirect)
}

func (s *Server) serveHealthCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	securityHeaders(w)
	io.WriteString(w, "Ok\n")
}

func (s *Server) serveVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	securityHeaders(w)
	io.WriteString(w, "collective-canvas v"+s.cfg.Version+"\n")
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Bind, strconv.Itoa(s.cfg.Port))
}

// BaseURL is the URL participants reach the server at.
func (s *Server) BaseURL() string {
	if s.cfg.PublicURL != "" {
		return strings.TrimSuffix(s.cfg.PublicURL, "/")
	}
	host := s.cfg.Bind
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = lanAddress()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.cfg.Port))
}

// JoinURL is the participant page of the canvas.
func (s *Server) JoinURL() string {
	return s.BaseURL() + "/join/" + s.cfg.CanvasID
}

// lanAddress picks the first non-loopback IPv4 address so phones on the
// same network can reach a server bound to all interfaces.
func lanAddress() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}
	for _, a := range addrs {
		if ipn, ok := a.(*net.IPNet); ok && !ipn.IP.IsLoopback() && ipn.IP.To4() != nil {
			return ipn.IP.String()
		}
	}
	return "localhost"
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	errs := make(chan error, 1)
	go func() {
		s.log.Infof("SERVE: Listening on http://%s/ (join at %s)", srv.Addr, s.JoinURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("intake: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
