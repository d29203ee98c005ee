package app

import (
	"context"
	"time"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/auth"
	"go-storefront/internal/cart"
	"go-storefront/internal/catalog"
	"go-storefront/internal/checkout"
	"go-storefront/internal/config"
	"go-storefront/internal/messaging/kafka/consumer"
	"go-storefront/internal/middleware"
	"go-storefront/internal/order"
	"go-storefront/internal/outbox"
	"go-storefront/internal/payment"
	"go-storefront/internal/product"
	"go-storefront/internal/session"
	"go-storefront/internal/wishlist"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type modules struct {
	store       *session.Store
	cartService cart.Service
	logger      *zap.Logger
}

func (m *modules) consumeCartEvents(ctx context.Context, reader *kafka.Reader) {
	consumer.ConsumeMessages(ctx, reader, m.cartService, m.logger.Named("cart.consumer"))
}

func registerModules(router *gin.Engine, cfg *config.Config, in *infra, logger *zap.Logger) (*modules, error) {
	// --- Clients ---
	api := apiclient.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logger.Named("apiclient"))
	tokens := session.NewTokens(cfg.Session.Secret, cfg.Session.TTL)

	images := catalog.PassthroughImages()
	if cfg.Cloudinary.CloudName != "" {
		resolver, err := catalog.NewCloudinaryResolver(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			return nil, errors.Wrap(err, "setup cloudinary")
		}
		images = resolver
	}

	gateway := payment.NewGateway(cfg.Midtrans.ServerKey, cfg.Midtrans.IsProduction, logger.Named("payment.gateway"))

	// --- Stores ---
	store := session.NewStore(session.StoreDeps{
		KV:     in.sessionKV,
		TTL:    cfg.Session.TTL,
		Logger: logger.Named("session.store"),
	})

	var outboxService outbox.Service
	if in.rdb != nil {
		outboxService = outbox.NewService(outbox.NewRepository(in.rdb), logger.Named("outbox.service"))
	}

	// --- Services ---
	catalogService := catalog.NewService(catalog.Deps{
		API:      api,
		Cache:    in.catalogKV,
		CacheTTL: cfg.Catalog.CacheTTL,
		Images:   images,
		Logger:   logger.Named("catalog.service"),
	})
	cartService := cart.NewService(cart.Deps{
		Store:           store,
		Catalog:         catalogService,
		RequireIdentity: cfg.Cart.RequireIdentity,
		Logger:          logger.Named("cart.service"),
	})
	wishlistService := wishlist.NewService(wishlist.Deps{
		API:    api,
		Store:  store,
		Logger: logger.Named("wishlist.service"),
	})
	authService := auth.NewService(auth.Deps{
		API:      api,
		Store:    store,
		Wishlist: wishlistService,
		Logger:   logger.Named("auth.service"),
	})
	orderClient := order.NewClient(api)
	orderService := order.NewService(order.Deps{
		Client: orderClient,
		Store:  store,
		Logger: logger.Named("order.service"),
	})
	checkoutService := checkout.NewService(checkout.Deps{
		Store:   store,
		Orders:  orderClient,
		Gateway: gateway,
		Outbox:  outboxService,
		Logger:  logger.Named("checkout.service"),
		Now:     time.Now,
	})

	// --- Handlers ---
	productHandler := product.NewHandler(catalogService, logger.Named("product.handler"))
	cartHandler := cart.NewHandler(cartService, logger.Named("cart.handler"))
	wishlistHandler := wishlist.NewHandler(wishlistService)
	authHandler := auth.NewHandler(authService, logger.Named("auth.handler"))
	orderHandler := order.NewHandler(orderService, logger.Named("order.handler"))
	checkoutHandler := checkout.NewHandler(checkoutService, logger.Named("checkout.handler"))

	// --- Routes Registration ---
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Session(tokens, middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}, logger))
	{
		product.RegisterRoutes(v1, productHandler)
		cart.RegisterRoutes(v1, cartHandler)
		wishlist.RegisterRoutes(v1, wishlistHandler)
		auth.RegisterRoutes(v1, authHandler)
		order.RegisterRoutes(v1, orderHandler, store)
		checkout.RegisterRoutes(v1, checkoutHandler, in.rdb, logger)
	}

	return &modules{store: store, cartService: cartService, logger: logger}, nil
}
