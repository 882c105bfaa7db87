package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"folioterm/internal/portfolio"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const sessionKey = "admin_session"

// Server exposes the REST surface the HTTPClient talks to, backed by a Store
// and a fixed snapshot.
type Server struct {
	store    Store
	snapshot portfolio.Snapshot
	apiKey   string
	logger   *log.Logger
	engine   *gin.Engine
}

type ServerOptions struct {
	// APIKey, when set, must be presented as a bearer token on every
	// public request.
	APIKey string
	Logger *log.Logger
	Debug  bool
}

func NewServer(store Store, snap portfolio.Snapshot, opts ServerOptions) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(nil)
	}
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		store:    store,
		snapshot: snap.Public(),
		apiKey:   opts.APIKey,
		logger:   opts.Logger,
	}
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.routes(r)
	s.engine = r
	return s
}

// Handler returns the router, for http.Server or httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("api listening", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) routes(r *gin.Engine) {
	api := r.Group("/api", s.apiKeyMiddleware())
	api.GET("/snapshot", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.snapshot)
	})

	api.POST("/messages", func(c *gin.Context) {
		var msg Message
		if err := c.ShouldBindJSON(&msg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored, err := s.store.SaveMessage(c.Request.Context(), msg)
		if err != nil {
			s.logger.Error("save message", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": stored.ID})
	})

	api.POST("/testimonials", func(c *gin.Context) {
		var t Testimonial
		if err := c.ShouldBindJSON(&t); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored, err := s.store.SaveTestimonial(c.Request.Context(), t)
		if err != nil {
			s.logger.Error("save testimonial", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save testimonial"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": stored.ID})
	})

	api.POST("/auth/login", func(c *gin.Context) {
		var creds Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess, err := s.store.Login(c.Request.Context(), creds)
		if errors.Is(err, ErrInvalidCredentials) {
			s.logger.Warn("rejected login", "email", creds.Email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err != nil {
			s.logger.Error("login", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		c.JSON(http.StatusOK, sess)
	})

	admin := api.Group("/admin", s.adminAuthMiddleware())
	admin.GET("/summary", func(c *gin.Context) {
		sum, err := s.store.Summary(c.Request.Context(), 10)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sum)
	})
	admin.GET("/whoami", func(c *gin.Context) {
		sess := c.MustGet(sessionKey).(Session)
		c.JSON(http.StatusOK, gin.H{"email": sess.Email, "expires_at": sess.ExpiresAt})
	})
}

func (s *Server) apiKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader(apiKeyHeader) != s.apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid API key"})
			return
		}
		c.Next()
	}
}

// adminAuthMiddleware accepts the session token as a bearer token or as the
// admin_token cookie.
func (s *Server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie("admin_token")
		}
		sess, err := s.store.LookupSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Microsecond),
		)
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
