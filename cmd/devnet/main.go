// Command devnet runs a local hot potato environment: a simulated chain
// producing blocks on a timer, the contract deployed at boot, and an HTTP
// API for submitting transactions, reading game state, and streaming
// events.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Cherrypick14/polkadot-hot-potato/chain"
	"github.com/Cherrypick14/polkadot-hot-potato/contract"
)

const deployer = "devnet"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		zap.NewExample().Fatal("bad config", zap.Error(err))
	}

	log := newLogger(cfg.Debug)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("devnet failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		log, _ := zap.NewDevelopment()
		return log
	}
	log, _ := zap.NewProduction()
	return log
}

func run(cfg Config, log *zap.Logger) error {
	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	ch := chain.New(store, chain.WithLogger(log))
	if err := deploy(ch, cfg); err != nil {
		return err
	}
	log.Info("contract deployed",
		zap.Uint64("deadlineBlocks", cfg.DeadlineBlocks),
		zap.Bool("allowSelfPass", cfg.AllowSelfPass))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go ch.Run(ctx, cfg.BlockInterval)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: (&server{chain: ch, log: log}).routes(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("devnet listening",
		zap.String("addr", cfg.ListenAddr),
		zap.Duration("blockInterval", cfg.BlockInterval))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openStore(cfg Config, log *zap.Logger) (chain.Store, error) {
	if cfg.StatePath == "" {
		log.Info("using in-memory state")
		return chain.NewMemStore(), nil
	}
	log.Info("using sqlite state", zap.String("path", cfg.StatePath))
	return chain.OpenSQLite(cfg.StatePath)
}

// deploy initializes the contract, tolerating state left by a previous
// run against a persistent store.
func deploy(ch *chain.Chain, cfg Config) error {
	flag := "0"
	if cfg.AllowSelfPass {
		flag = "1"
	}
	payload := strconv.FormatUint(cfg.DeadlineBlocks, 10) + "|" + flag

	_, err := ch.Submit(deployer, contract.OpInit, payload)
	if err != nil && !contract.IsCode(err, contract.CodeAlreadyInitialized) {
		return err
	}
	return nil
}
