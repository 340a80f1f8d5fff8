package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/internal/auth"
	c "github.com/CampiteliRafael/cartEcommerce/internal/cache"
	"github.com/CampiteliRafael/cartEcommerce/internal/config"
	"github.com/CampiteliRafael/cartEcommerce/internal/events"
	h "github.com/CampiteliRafael/cartEcommerce/internal/http"
	"github.com/CampiteliRafael/cartEcommerce/internal/metrics"
	"github.com/CampiteliRafael/cartEcommerce/internal/repository"
	s "github.com/CampiteliRafael/cartEcommerce/internal/service"
	"github.com/CampiteliRafael/cartEcommerce/pkg/circuitbreaker"
	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault("api").WithError(err).Fatal("invalid configuration")
	}
	log := logger.NewForEnv("api", cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up MongoDB connection
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	mongoDB, err := repository.ConnectMongoDB(connectCtx, repository.MongoConfig{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDBName,
		MaxPoolSize: cfg.MongoMaxPoolSize,
	})
	cancel()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	log.WithField("database", cfg.MongoDBName).Info("connected to MongoDB")

	if err := repository.RunMigrations(mongoDB); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// the cart engine keeps working from MongoDB alone
		log.WithError(err).Warn("redis ping failed, cache will be degraded")
	}

	breakerCfg := circuitbreaker.DefaultConfig("cart-cache")
	breakerCfg.OnStateChange = func(name, from, to string) {
		log.WithFields(logrus.Fields{"breaker": name, "from": from, "to": to}).Warn("circuit breaker state changed")
	}
	cartCache := c.NewBreakerCache(c.NewRedisCache(redisClient, cfg.CacheTTL), breakerCfg)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		log.WithField("topic", cfg.KafkaTopic).Info("publishing cart events to Kafka")

		invalidator := events.NewCacheInvalidator(cartCache, log, cfg.KafkaTopic, cfg.KafkaGroupID, cfg.KafkaBrokers...)
		defer invalidator.Close()
		go invalidator.Run(ctx)
	}
	defer publisher.Close()

	m := metrics.New()
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTTTL,
	})

	opts := []s.Option{s.WithLogger(log), s.WithMetrics(m), s.WithPublisher(publisher)}
	carts := repository.NewCartRepository(mongoDB)
	products := repository.NewProductRepository(mongoDB)
	users := repository.NewUserRepository(mongoDB)

	cartService := s.NewCartService(carts, products, cartCache, opts...)
	catalogService := s.NewCatalogService(products)
	userService := s.NewUserService(users, tokens, opts...)

	limiter := h.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	go limiter.Run(ctx, time.Minute)

	router := h.NewRouter(h.RouterConfig{
		Cart:               cartService,
		Catalog:            catalogService,
		Users:              userService,
		Tokens:             tokens,
		Logger:             log,
		Metrics:            m,
		RateLimiter:        limiter,
		Env:                cfg.AppEnv,
		FrontendURL:        cfg.FrontendURL,
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		ExposeErrorDetails: !cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.AppEnv}).Info("API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Warn("failed to disconnect from MongoDB")
	}

	log.Info("server exited")
}
