package main

import (
	"context"
	"log"
	"time"

	"github.com/CFITire/nexus-sub001/internal/core/cache"
	"github.com/CFITire/nexus-sub001/internal/core/config"
	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
	"github.com/CFITire/nexus-sub001/internal/core/httpclient"
	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/core/proxy"
	"github.com/CFITire/nexus-sub001/internal/core/server"
	analyticshandler "github.com/CFITire/nexus-sub001/internal/features/analytics/handler"
	analyticsservice "github.com/CFITire/nexus-sub001/internal/features/analytics/service"
	locationadapter "github.com/CFITire/nexus-sub001/internal/features/locations/adapters"
	locationhandler "github.com/CFITire/nexus-sub001/internal/features/locations/handler"
	locationports "github.com/CFITire/nexus-sub001/internal/features/locations/ports"
	locationservice "github.com/CFITire/nexus-sub001/internal/features/locations/service"
	orderadapter "github.com/CFITire/nexus-sub001/internal/features/orders/adapters"
	orderhandler "github.com/CFITire/nexus-sub001/internal/features/orders/handler"
	orderports "github.com/CFITire/nexus-sub001/internal/features/orders/ports"
	orderservice "github.com/CFITire/nexus-sub001/internal/features/orders/service"
	shipmentadapter "github.com/CFITire/nexus-sub001/internal/features/shipments/adapters"
	shipmenthandler "github.com/CFITire/nexus-sub001/internal/features/shipments/handler"
	shipmentports "github.com/CFITire/nexus-sub001/internal/features/shipments/ports"
	shipmentservice "github.com/CFITire/nexus-sub001/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// outboundTimeout bounds each upstream ERP call, token exchange included.
const outboundTimeout = 15 * time.Second

// @title Nexus ERP Gateway API
// @version 1.0
// @description Integration layer between the Nexus operations dashboard and the upstream order-management ERP.
// @contact.name Platform Team
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("live_api", !cfg.ERP.DisableLiveAPI),
	)

	if err := cfg.ERP.Validate(); err != nil {
		l.Fatal("Invalid ERP configuration", zap.Error(err))
	}

	// Optional Redis cache. A missing or unreachable Redis disables caching,
	// never the endpoints that use it.
	var cacheAdapter cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.RedisURL)
		if err != nil {
			l.Fatal("Invalid Redis configuration", zap.Error(err))
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			l.Warn("Redis unreachable, caching disabled", zap.Error(err))
		} else {
			cacheAdapter = redisCache
			defer redisCache.Close()
		}
		cancel()
	}

	httpClient := httpclient.NewProxiedClient(outboundTimeout, proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Host,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	})

	// Live adapters are only wired when live mode is enabled; services treat
	// their absence as a trigger for the substitute datasets.
	var (
		orderSearcher    orderports.Searcher
		locationProvider locationports.Provider
		shipmentSource   shipmentports.Source
	)
	if !cfg.ERP.DisableLiveAPI {
		erpClient := dynamics.NewClient(cfg.ERP, httpClient)

		healthCtx, cancel := context.WithTimeout(context.Background(), outboundTimeout)
		if err := erpClient.HealthCheck(healthCtx); err != nil {
			l.Warn("ERP health check failed, requests may fall back to substitute data", zap.Error(err))
		} else {
			l.Info("ERP connection verified")
		}
		cancel()

		orderSearcher = orderadapter.NewBusinessCentralAdapter(erpClient)
		locationProvider = locationadapter.NewBusinessCentralAdapter(erpClient)
		shipmentSource = shipmentadapter.NewBusinessCentralAdapter(erpClient)
	}

	orderSvc := orderservice.NewOrderService(orderSearcher, orderadapter.NewFallbackAdapter(), cfg.ERP.DisableLiveAPI)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	locationSvc := locationservice.NewLocationService(locationProvider, locationadapter.NewFallbackAdapter(), cfg.ERP.DisableLiveAPI, cacheAdapter)
	locationHdl := locationhandler.NewLocationHandler(locationSvc)

	shipmentSvc := shipmentservice.NewShipmentService(shipmentSource)
	shipmentHdl := shipmenthandler.NewShipmentHandler(shipmentSvc)

	analyticsSvc := analyticsservice.NewAnalyticsService(shipmentSource)
	analyticsHdl := analyticshandler.NewAnalyticsHandler(analyticsSvc)

	srv := server.New(cfg)

	srv.App.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status": "ok",
			"mode":   "live",
		}
		if cfg.ERP.DisableLiveAPI {
			status["mode"] = "degraded"
		}
		if cacheAdapter != nil {
			if err := cacheAdapter.Ping(c.UserContext()); err != nil {
				status["cache"] = "unreachable"
			} else {
				status["cache"] = "ok"
			}
		}
		return c.JSON(status)
	})

	srv.App.Get("/locations", locationHdl.Search)
	srv.App.Get("/purchase-orders", orderHdl.SearchPurchaseOrders)
	srv.App.Get("/sales-orders", orderHdl.SearchSalesOrders)
	srv.App.Get("/shipments", shipmentHdl.List)
	srv.App.Get("/shipment-analytics", analyticsHdl.Snapshot)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
