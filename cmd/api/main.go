package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"vendormart/internal/cache"
	"vendormart/internal/config"
	"vendormart/internal/db"
	"vendormart/internal/events"
	"vendormart/internal/httpserver"
	invoicedoc "vendormart/internal/invoice"
	"vendormart/internal/metrics"
	addressrepo "vendormart/internal/repository/address"
	cartrepo "vendormart/internal/repository/cart"
	invoicerepo "vendormart/internal/repository/invoice"
	orderrepo "vendormart/internal/repository/order"
	productrepo "vendormart/internal/repository/product"
	tokenrepo "vendormart/internal/repository/token"
	userrepo "vendormart/internal/repository/user"
	vendorrepo "vendormart/internal/repository/vendor"
	addresssvc "vendormart/internal/service/address"
	authsvc "vendormart/internal/service/auth"
	cartsvc "vendormart/internal/service/cart"
	catalogsvc "vendormart/internal/service/catalog"
	ordersvc "vendormart/internal/service/order"
	paymentsvc "vendormart/internal/service/payment"
	"vendormart/internal/storage"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var cartCache cache.CartCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		cartCache = cache.NewRedisCache(client)
	}

	var producer events.Producer = events.NopProducer{}
	if cfg.KafkaBrokers != "" {
		producer = events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	}
	defer producer.Close()

	var objects storage.ObjectStorage
	if cfg.SpacesBucket != "" {
		objects, err = storage.NewSpaces(ctx, storage.SpacesConfig{
			Region:   cfg.SpacesRegion,
			Endpoint: cfg.SpacesEndpoint,
			Bucket:   cfg.SpacesBucket,
			Key:      cfg.SpacesKey,
			Secret:   cfg.SpacesSecret,
		})
		if err != nil {
			logger.Fatalf("connect to object storage: %v", err)
		}
	}

	userRepo := userrepo.NewPostgres(dbpool, logger)
	vendorRepo := vendorrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	addressRepo := addressrepo.NewPostgres(dbpool)
	invoiceRepo := invoicerepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, vendorRepo, tokenRepo).
		WithTTLs(cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	catalogService := catalogsvc.New(productRepo, objects)
	cartService := cartsvc.New(cartRepo, productRepo, cartCache, logger)
	orderService := ordersvc.New(orderRepo, cartRepo, cartCache, productRepo, producer, logger)
	addressService := addresssvc.New(addressRepo)
	paymentService := paymentsvc.New(orderRepo, invoiceRepo, userRepo,
		invoicedoc.NewPDFRenderer(), objects, cfg.PaymentSecret, logger)

	serverMetrics := metrics.NewServerMetrics("api")

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Auth:      authService,
		Catalog:   catalogService,
		Cart:      cartService,
		Orders:    orderService,
		Addresses: addressService,
		Payments:  paymentService,
	}, serverMetrics)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
