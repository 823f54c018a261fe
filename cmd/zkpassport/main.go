package main

import (
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kamalbuilds/zkPassport/adapters/chain"
	"github.com/kamalbuilds/zkPassport/adapters/events"
	"github.com/kamalbuilds/zkPassport/adapters/oracle"
	"github.com/kamalbuilds/zkPassport/adapters/store"
	"github.com/kamalbuilds/zkPassport/config"
	"github.com/kamalbuilds/zkPassport/service"
	"github.com/kamalbuilds/zkPassport/transport/http"
)

func main() {
	if level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(level)
	}

	redisURL := envOr("REDIS_URL", "redis://localhost:6379/0")
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opts)

	// The Redis client is shared between the session store and the Watermill
	// publisher.
	logger := watermill.NewStdLogger(false, false)
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		logrus.Fatalf("Failed to create Redis publisher: %v", err)
	}

	kv := store.NewRedisStore(redisClient)
	eventPub := events.NewWatermillPublisher(publisher)

	saltOracle := oracle.NewSaltClient(envOr("SALT_SERVICE_URL", "https://salt.api.mystenlabs.com/get_salt"), nil)
	proofOracle := oracle.NewProverClient(envOr("PROVER_URL", "https://prover.mystenlabs.com/v1"), nil)

	resolver := service.NewResolver(service.ResolverConfig{
		SaltOracle:  saltOracle,
		ProofOracle: proofOracle,
		// Degraded mode for development only; every subject shares one salt.
		AllowInsecureFallbackSalt: os.Getenv("ALLOW_INSECURE_FALLBACK_SALT") == "true",
	})

	keys := service.NewKeyManager(service.DefaultEpochDuration)
	sessions := service.NewSessionManager(kv)
	login := service.NewLoginFlow(keys, resolver, sessions, kv, eventPub)
	registry := service.NewRegistry(config.DefaultIssuers(), eventPub, nil)

	chains := config.DefaultChains()
	bridge := service.NewBridge(service.BridgeConfig{
		Chains:    chains,
		Verifiers: chain.Verifiers(chains),
		Submitter: chain.NewSimulatedSubmitter(),
		Registry:  registry,
		Events:    eventPub,
	})

	providers := config.Providers(config.OAuthConfig{
		GoogleClientID:   os.Getenv("GOOGLE_CLIENT_ID"),
		FacebookClientID: os.Getenv("FACEBOOK_CLIENT_ID"),
		RedirectURI:      os.Getenv("REDIRECT_URI"),
	})

	router := http.SetupRouter(login, sessions, registry, bridge, providers)

	addr := ":" + envOr("PORT", "9000")
	if err := router.Run(addr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
