package http

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"fedauth/internal/domain"
	"fedauth/internal/usecase"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// handleInbox authenticates open-federation deliveries: rate-limit gate,
// signature verification, then enforcement. The gate runs strictly before
// any key fetch or crypto work.
func (s *Server) handleInbox(c *gin.Context) {
	rawSig := c.GetHeader("Signature")

	if !s.enforceInboxRateLimit(c, rawSig) {
		return
	}

	body := rawBody(c)
	req := usecase.SignedRequest{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Query:   c.Request.URL.RawQuery,
		Host:    c.Request.Host,
		Headers: c.Request.Header,
	}
	result := s.verifier.Verify(c.Request.Context(), req, rawSig)
	kind := usecase.ActivityKindFromBody(body)
	decision := usecase.Decide(result, kind, s.strictMode)

	if !result.Valid && result.Err != nil {
		log.Printf("inbox signature verification failed: %v (decision=%s)", result.Err, decision)
	}

	switch decision {
	case domain.DecisionReject:
		// Generic body: which of parse, fetch or crypto failed stays in
		// the logs.
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	case domain.DecisionAccept:
		c.JSON(http.StatusAccepted, gin.H{
			"status": "accepted",
			"actor":  result.Signer.OwnerID(),
		})
	case domain.DecisionAcceptAmnesty:
		c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
	case domain.DecisionAcceptUnverified:
		c.JSON(http.StatusAccepted, gin.H{
			"status":   "accepted",
			"verified": false,
		})
	}
}

// handlePeerInbox authenticates the closed-peer channel. Every failure
// renders the same unauthorized body; the failing check is only logged.
func (s *Server) handlePeerInbox(c *gin.Context) {
	proof := usecase.PeerProof{
		Domain:    strings.TrimSpace(c.GetHeader("X-Federation-Domain")),
		KeyID:     strings.TrimSpace(c.GetHeader("X-Federation-Key-Id")),
		Timestamp: c.GetHeader("X-Federation-Timestamp"),
		Digest:    c.GetHeader("X-Federation-Digest"),
		Signature: c.GetHeader("X-Federation-Signature"),
	}
	peer, authErr := s.peerAuth.Authenticate(
		c.Request.Context(),
		proof,
		c.Request.Method,
		c.Request.URL.Path,
		c.Request.URL.RawQuery,
		rawBody(c),
	)
	if authErr != nil {
		log.Printf("peer auth failed for domain %q: %s", proof.Domain, authErr.Kind)
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"peer":   peer.Domain,
	})
}

type revokeTokenRequest struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleRevokeToken(c *gin.Context) {
	if !s.requireAdminKey(c) {
		return
	}
	var req revokeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if req.Token == "" || req.ExpiresAt.IsZero() {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "token and expires_at are required")
		return
	}
	err := s.revocation.Revoke(c.Request.Context(), req.Token, req.ExpiresAt)
	if err == domain.ErrAlreadyRevoked {
		writeErrorCode(c, http.StatusConflict, "ALREADY_REVOKED", "token already revoked")
		return
	}
	if err != nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "could not revoke token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}

func (s *Server) requireAdminKey(c *gin.Context) bool {
	if s.adminAPIKey == "" {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "admin key required")
		return false
	}
	key := strings.TrimSpace(c.GetHeader("X-Admin-Key"))
	if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.adminAPIKey)) != 1 {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "admin key required")
		return false
	}
	return true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleNotFound(c *gin.Context) {
	writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
}
