package main

import (
	"log"
	"net/http"

	"fedauth/internal/config"
	"fedauth/internal/domain"
	"fedauth/internal/infra/db"
	httpinfra "fedauth/internal/infra/http"
	"fedauth/internal/infra/keyfetch"
	"fedauth/internal/infra/keystore"
	"fedauth/internal/infra/peers"
	"fedauth/internal/infra/ratelimit"
	"fedauth/internal/infra/revmem"
	"fedauth/internal/usecase"
)

func main() {
	cfg := config.FromEnv()

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	cache := keystore.New(keystore.WithRefreshGuard(cfg.KeyRefreshGuard()))
	fetcher := keyfetch.New(
		keyfetch.WithHTTPClient(http.DefaultClient),
		keyfetch.WithFetchTimeout(cfg.KeyFetchTimeout()),
	)
	resolver := usecase.NewKeyResolver(cache, fetcher)
	verifier := usecase.NewSignatureVerifier(resolver)

	limiter, err := buildRateLimiter(cfg)
	if err != nil {
		log.Fatalf("failed to init rate limiter: %v", err)
	}

	peerStore, err := buildPeerStore(cfg, store)
	if err != nil {
		log.Fatalf("failed to init peer store: %v", err)
	}
	peerAuth := usecase.NewPeerTrustAuthenticator(peerStore, cfg.PeerTimestampSkew())

	var revRepo domain.RevokedTokenRepository
	if store.DB != nil {
		revRepo = db.NewRevokedTokenRepository(store.DB)
	} else {
		revRepo = revmem.New()
	}
	revocation := usecase.NewTokenRevocationService(revRepo, cfg.RevocationFailOpen)

	srv := httpinfra.NewServer(cfg, httpinfra.ServerDeps{
		Verifier:    verifier,
		RateLimiter: limiter,
		PeerAuth:    peerAuth,
		Revocation:  revocation,
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func buildRateLimiter(cfg config.Config) (domain.RateLimiter, error) {
	if cfg.RedisAddr != "" {
		return ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil)
	}
	return ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{MaxKeys: cfg.RateLimitMaxKeys}), nil
}

func buildPeerStore(cfg config.Config, store *db.Store) (domain.PeerStore, error) {
	if store.DB != nil {
		return db.NewPeerRepository(store.DB), nil
	}
	return peers.NewStaticStore(cfg.FederationPeersJSON)
}
