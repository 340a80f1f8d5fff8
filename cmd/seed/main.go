// Command seed replaces the product catalog with the sample products.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/internal/config"
	"github.com/CampiteliRafael/cartEcommerce/internal/repository"
	s "github.com/CampiteliRafael/cartEcommerce/internal/service"
	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logger.NewDefault("seed")

	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrMissingJWTSecret) {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mongoDB, err := repository.ConnectMongoDB(ctx, repository.MongoConfig{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDBName,
		AppName:     "cart-seed",
		MaxPoolSize: cfg.MongoMaxPoolSize,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer mongoDB.Client().Disconnect(context.Background())

	if err := repository.RunMigrations(mongoDB); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	catalog := s.NewCatalogService(repository.NewProductRepository(mongoDB))
	inserted, err := catalog.Seed(ctx, sampleProducts)
	if err != nil {
		log.WithError(err).Fatal("failed to seed products")
	}

	log.WithField("count", len(inserted)).Info("products inserted")
	for i, p := range inserted {
		log.WithFields(logrus.Fields{"n": i + 1, "id": p.ID.Hex(), "name": p.Name}).Info("product")
	}
}
