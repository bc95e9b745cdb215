package http

import (
	"time"

	"fedauth/internal/config"
	"fedauth/internal/domain"
	"fedauth/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg config.Config
	r   *gin.Engine

	verifier     *usecase.SignatureVerifier
	inboxLimiter *usecase.InboxRateLimiter
	peerAuth     *usecase.PeerTrustAuthenticator
	revocation   *usecase.TokenRevocationService

	adminAPIKey string
	strictMode  bool
}

type ServerDeps struct {
	Verifier    *usecase.SignatureVerifier
	RateLimiter domain.RateLimiter
	PeerAuth    *usecase.PeerTrustAuthenticator
	Revocation  *usecase.TokenRevocationService
}

func NewServer(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:         cfg,
		r:           r,
		verifier:    deps.Verifier,
		peerAuth:    deps.PeerAuth,
		revocation:  deps.Revocation,
		adminAPIKey: cfg.AdminAPIKey,
		strictMode:  cfg.StrictFederation,
	}
	s.inboxLimiter = &usecase.InboxRateLimiter{
		Limiter:    deps.RateLimiter,
		Requests:   cfg.InboxRateLimitRequests,
		Window:     time.Duration(cfg.InboxRateLimitWindowSeconds) * time.Second,
		FailClosed: cfg.RateLimitFailClosed,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	inbox := s.r.Group("/", captureRawBody())
	inbox.POST("/inbox", s.handleInbox)
	inbox.POST("/users/:username/inbox", s.handleInbox)
	inbox.POST("/federation/inbox", s.handlePeerInbox)

	s.r.POST("/admin/tokens/revoke", s.handleRevokeToken)
	s.r.GET("/healthz", s.handleHealth)
	s.r.NoRoute(s.handleNotFound)
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.r
}
