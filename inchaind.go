package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/children0001/inchain/blockchain"
	"github.com/children0001/inchain/blockfork"
	"github.com/children0001/inchain/config"
	"github.com/children0001/inchain/credit"
	"github.com/children0001/inchain/dbaccess"
	"github.com/children0001/inchain/infrastructure/logger"
	"github.com/children0001/inchain/signal"
	"github.com/children0001/inchain/validator"
	"github.com/children0001/inchain/version"
)

// inchaindMain is the real main function for inchaind. It is separated from
// main so the deferred cleanups run before os.Exit.
func inchaindMain() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.InitLog(cfg.LogFile(), cfg.ErrLogFile())
	logger.SetLogLevels(cfg.LogLevel)
	defer logger.BackendLog.Close()

	log.Infof("Version %s", version.Version())

	databaseContext, err := dbaccess.New(filepath.Join(cfg.DataDir, "db"))
	if err != nil {
		return err
	}
	defer func() {
		log.Infof("Gracefully shutting down the database...")
		err := databaseContext.Close()
		if err != nil {
			log.Errorf("Error closing the database: %s", err)
		}
	}()

	creditLedger, err := credit.NewCollection(cfg.ActiveParams.CreditWindow, databaseContext)
	if err != nil {
		return err
	}

	chain, err := blockchain.New(&blockchain.Config{
		DatabaseContext: databaseContext,
		Params:          &cfg.ActiveParams,
		TxValidator:     validator.New(),
		CreditValidator: credit.NewEngine(&cfg.ActiveParams, creditLedger),
		ScriptVerifier:  validator.NewBlockScriptVerifier(),
		ForkTracker:     blockfork.NewTracker(databaseContext),
	})
	if err != nil {
		return err
	}

	chain.Subscribe(func(notification *blockchain.Notification) {
		if notification.Type != blockchain.NTChainChanged {
			return
		}
		data := notification.Data.(*blockchain.ChainChangedNotificationData)
		log.Infof("Chain tip advanced to %s (height %d)", data.Hash, data.Height)
	})

	// The peer-messaging layer feeds chain.ProcessBlock; until it is
	// wired in, the daemon simply holds the chain open.
	interrupt := signal.InterruptListener()
	<-interrupt
	return nil
}

func main() {
	if err := inchaindMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
