package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradedesk/src/auth"
	"tradedesk/src/controller"
	"tradedesk/src/handler"
	"tradedesk/src/repository"
	"tradedesk/src/security"
)

func StartServer(port string) {
	// Router with middleware
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error(" \"/health error")
		}
	})

	cipher, err := security.NewCipher(security.GetConfig())
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize credential cipher")
	}

	credentialRepo := repository.NewCredentialRepository()
	pairRepo := repository.NewTradingPairRepository()
	strategyRepo := repository.NewStrategyRepository()
	orderRepo := repository.NewRemoteOrderRepository()
	executionRepo := repository.NewRemoteExecutionRepository()

	credentials := controller.NewCredentialService(credentialRepo, cipher, nil)
	resolver := controller.NewSymbolResolver(pairRepo)
	syncer := controller.NewTradeHistorySyncer(resolver, orderRepo, executionRepo)

	dashboard := handler.DashboardDeps{
		Credentials:    credentials,
		CredentialRepo: credentialRepo,
		Reconciler:     controller.NewAccountReconciler(orderRepo),
		Market:         controller.NewMarketDataService(),
		Portfolio:      controller.NewPortfolioValuator(),
		Resolver:       resolver,
	}

	// Authenticated API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(repository.NewUserRepository()))

		r.Route("/credentials", func(r chi.Router) {
			r.Post("/", handler.CreateCredentialHandler(credentials))
			r.Get("/", handler.ListCredentialsHandler(credentialRepo))
			r.Post("/{id}/validate", handler.ValidateCredentialHandler(credentials))
			r.Delete("/{id}", handler.DeleteCredentialHandler(credentialRepo))
		})

		r.Route("/pairs", func(r chi.Router) {
			r.Get("/", handler.ListPairsHandler(pairRepo))
			r.Post("/", handler.CreatePairHandler(pairRepo))
			r.Delete("/{id}", handler.DeletePairHandler(pairRepo))
		})

		r.Route("/strategies", func(r chi.Router) {
			r.Get("/", handler.ListStrategiesHandler(strategyRepo))
			r.Post("/", handler.CreateStrategyHandler(strategyRepo))
			r.Put("/{id}", handler.UpdateStrategyHandler(strategyRepo))
			r.Delete("/{id}", handler.DeleteStrategyHandler(strategyRepo))
		})

		r.Post("/sync/trades", handler.SyncTradesHandler(credentials, credentialRepo, syncer))
		r.Get("/orders", handler.DefaultSearchOrdersHandler())
		r.Get("/dashboard", handler.DashboardHandler(dashboard))
	})

	// Graceful server
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
