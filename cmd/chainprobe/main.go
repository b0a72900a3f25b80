package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chain_probe/internal/app/port"
	"chain_probe/internal/app/provider"
	"chain_probe/internal/app/service"
	"chain_probe/internal/infrastructure/configloader"
	"chain_probe/internal/infrastructure/httpclient"
	clientprovider "chain_probe/internal/infrastructure/network/client"
	networkdefinition "chain_probe/internal/infrastructure/network/definition"
	"chain_probe/internal/infrastructure/restapi"
	"chain_probe/internal/pkg/logger"
	"chain_probe/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.yml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	cfg, err := configloader.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitSlog(cfg.Logging.Level)
	defer logger.Sync()
	appLogger := logger.NewSlogAdapter()
	zapLogger := logger.Zap()

	metrics.MustRegisterMetrics()

	transportProvider := clientprovider.NewEVMTransportProvider(cfg, appLogger)
	defer transportProvider.Close()

	transport, err := transportProvider.GetTransport(context.Background(), cfg.Node.NodeDefinition)
	if err != nil {
		logger.Fatal("Failed to connect to node", "node", cfg.Node.Name, "error", err)
	}

	registry := networkdefinition.NewChainRegistry(cfg.Chains...)
	detector := service.NewChainDetector(transport, registry, appLogger)

	var priceProvider port.PriceProvider
	if cfg.CoinGecko.Enabled {
		priceProvider = httpclient.NewCoinGeckoClient(cfg, zapLogger)
		appLogger.Info("CoinGecko price provider enabled", "coin", cfg.CoinGecko.CoinID, "currency", cfg.CoinGecko.VsCurrency)
	}
	walletProvider := provider.NewWalletProvider(cfg.Wallets.File, appLogger)
	balanceService := service.NewBalanceService(transport, walletProvider, priceProvider, appLogger, cfg)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Duration(cfg.Node.RPCCallTimeoutSeconds)*time.Second)
	if detection, err := detector.Check(startupCtx); err != nil {
		appLogger.Warn("Initial chain detection failed", "error", err)
	} else {
		appLogger.Info("Connected node identified", "chain", detection.Chain, "chain_id", detection.ChainID)
	}
	cancelStartup()

	gin.SetMode(gin.ReleaseMode)
	router := restapi.SetupRouter(restapi.Handlers{
		Chain:    restapi.NewChainHandler(detector, cfg, appLogger),
		Balances: restapi.NewBalanceHandler(balanceService),
		Convert:  restapi.NewConvertHandler(cfg),
	}, zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
