package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/apper-canvas/learnhubdigital/core"
	logsvc "github.com/apper-canvas/learnhubdigital/services/logger"
	"github.com/apper-canvas/learnhubdigital/storage/database"
)

func main() {
	conf := core.NewConfig()

	logger, err := logsvc.NewRollbarLogger(conf)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	logger.Enable(false)

	cli := commandLine{
		out: os.Stdout,
		openDB: func(ctx context.Context) (*sql.DB, error) {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, err
			}
			db, err := database.Open(conf)
			if err != nil {
				return nil, err
			}
			if err = database.Ping(ctx, db.DB); err != nil {
				_ = db.Close()
				return nil, err
			}
			return db.DB, nil
		},
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
