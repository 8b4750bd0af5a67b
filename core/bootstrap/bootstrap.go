package bootstrap

import (
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/mkruglov/bookbot/core/config"
	coredatabase "github.com/mkruglov/bookbot/core/database"
	"github.com/mkruglov/bookbot/core/logger"
)

// Options control the bootstrap pipeline: logger, book database, provisioning.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	// Migrations is the embedded schema used when Config.Book.Provision is
	// set; Dir is its directory inside the FS.
	Migrations fs.FS
	Dir        string

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	DB *sqlx.DB
}

// Run initializes the logger, connects to the book database, and optionally
// provisions the book schema.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: book initialization failed: %w", err)
	}

	if opts.Config.Book.Provision && opts.Migrations != nil {
		if err := coredatabase.Provision(db, opts.Database, opts.Migrations, opts.Dir); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: book provisioning failed: %w", err)
		}
	}

	return &Result{DB: db}, nil
}
