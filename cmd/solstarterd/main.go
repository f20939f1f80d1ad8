package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"solstarter/internal/config"
	"solstarter/internal/idoledger"
	"solstarter/internal/idoprogram"
	"solstarter/internal/idoserver"
	"solstarter/internal/logging"

	"github.com/gagliardetto/solana-go"
)

func main() {
	configFile := os.Getenv("CONFIG_FILE")
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, closeLog, err := logging.New("solstarterd", cfg.Log)
	if err != nil {
		log.Fatalf("init logging: %v", err)
	}
	defer closeLog()

	ledger, err := idoledger.Open(cfg.LedgerDSN)
	if err != nil {
		logger.Error("open ledger", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	programID := cfg.ProgramID
	if programID.IsZero() {
		programID = solana.MustPublicKeyFromBase58("SoLSTarter111111111111111111111111111111pq")
	}

	store := idoprogram.NewAccountStore(idoprogram.SystemClock{}, idoprogram.DefaultRentOracle{}, idoprogram.NewLedgerAdapter())
	srv := idoserver.New(programID, store, ledger, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/init-market", srv.HandleInitMarket)
	mux.HandleFunc("/api/init-pool", srv.HandleInitPool)
	mux.HandleFunc("/api/participate", srv.HandleParticipate)
	mux.HandleFunc("/api/add-to-whitelist", srv.HandleAddToWhitelist)
	mux.HandleFunc("/api/claim", srv.HandleClaim)
	mux.HandleFunc("/api/withdraw", srv.HandleWithdraw)
	mux.HandleFunc("/api/set-kyc", srv.HandleSetKyc)
	mux.HandleFunc("/api/clear-kyc", srv.HandleClearKyc)
	mux.HandleFunc("/api/pool", srv.HandleGetPool)
	mux.HandleFunc("/health", srv.HandleHealth)

	logger.Info("solstarterd starting",
		slog.String("listen_addr", cfg.ListenAddr),
		slog.String("program_id", programID.String()),
		slog.String("rpc_url", cfg.RPCURL),
	)
	logger.Info("endpoints",
		"routes", []string{
			"POST /api/init-market", "POST /api/init-pool", "POST /api/participate",
			"POST /api/add-to-whitelist", "POST /api/claim", "POST /api/withdraw",
			"POST /api/set-kyc", "POST /api/clear-kyc", "GET /api/pool",
		})

	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
