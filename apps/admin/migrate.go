package main

import (
	"context"

	"github.com/pkg/errors"

	appfs "github.com/apper-canvas/learnhubdigital/fs"
	"github.com/apper-canvas/learnhubdigital/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.openDB(context.Background())
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}
	return gooseRunFunc(args[0], db, appfs.FS, args[1:]...)
}
