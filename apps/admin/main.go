package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/fomu/core"
	"github.com/trezcool/fomu/core/customform"
	emailsvc "github.com/trezcool/fomu/services/email"
	logsvc "github.com/trezcool/fomu/services/logger"
	"github.com/trezcool/fomu/storage/database"
	inmemdb "github.com/trezcool/fomu/storage/database/inmem"
	sqlxrepos "github.com/trezcool/fomu/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB & repos
	var db *sqlx.DB
	var repo customform.Repository
	if conf.Database.InMemory {
		repo = inmemdb.NewCustomFormRepository(inmemdb.Open())
	} else {
		var err error
		if db, err = database.Open(conf); err != nil {
			logger.Fatal("opening database", err)
		}
		defer db.Close()
		repo = sqlxrepos.NewCustomFormRepository(db)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	customform.InitValidators(validate, translator)
	core.ParseEmailTemplates(logger)

	// start CLI
	cli := commandLine{
		conf:     conf,
		db:       db,
		formSvc:  customform.NewService(repo, emailsvc.NewConsoleService(conf, logger), logger),
		validate: validate,
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		if db != nil {
			db.Close()
		}
		os.Exit(1)
	}
}
