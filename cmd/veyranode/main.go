package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/veyra-labs/veyra/amount"
	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/engine"
	"github.com/veyra-labs/veyra/network"
	"github.com/veyra-labs/veyra/store"
	"github.com/veyra-labs/veyra/types"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the node config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on config file and environment")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("Failed to load config from %s: %v", *configPath, err)
		}
		cfg = &config.Config{}
	}
	cfg.FromEnv()

	if cfg.OwnerAddress == "" || cfg.TreasuryAddress == "" || cfg.ReserveAddress == "" {
		log.Fatal("OWNER_ADDRESS, TREASURY_ADDRESS and RESERVE_ADDRESS must be set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8545"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}

	db, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open store at %s: %v", cfg.DataDir, err)
	}
	defer db.Close()

	signers := make([]types.Address, 0, len(cfg.SignerAddresses))
	for _, s := range cfg.SignerAddresses {
		signers = append(signers, types.Address(s))
	}

	var initialSupply amount.Amount
	if cfg.InitialSupply != "" {
		initialSupply, err = amount.Parse(cfg.InitialSupply)
		if err != nil {
			log.Fatalf("Invalid INITIAL_SUPPLY %q: %v", cfg.InitialSupply, err)
		}
	}

	eng, err := engine.New(engine.Params{
		Owner:         types.Address(cfg.OwnerAddress),
		Treasury:      types.Address(cfg.TreasuryAddress),
		Reserve:       types.Address(cfg.ReserveAddress),
		InitialSupply: initialSupply,
		Signers:       signers,
		Store:         db,
	})
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	snap, err := db.LoadSnapshot()
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	if snap != nil {
		eng.Restore(snap)
		log.Printf("Restored governed configuration from snapshot")
	}

	ops, err := db.Operations()
	if err != nil {
		log.Fatalf("Failed to load pending operations: %v", err)
	}
	if len(ops) > 0 {
		eng.Governance().Restore(ops)
		log.Printf("Restored %d governance operation(s)", len(ops))
	}

	supply := amount.Amount(eng.TotalSupply())
	log.Printf("Engine ready: supply %s, %d holder(s)", supply, eng.HolderCount())

	router := network.NewRouter(eng, cfg.JWTSecret)
	router.Start()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      c.Handler(router.SetupRoutes()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("Shutting down")
	router.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("WARN: server shutdown: %v", err)
	}

	if err := db.SaveSnapshot(eng.Snapshot()); err != nil {
		log.Printf("WARN: failed to persist final snapshot: %v", err)
	}
}
