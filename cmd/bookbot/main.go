package main

import (
	"log"
	"os"

	"github.com/mkruglov/bookbot/core/bootstrap"
	"github.com/mkruglov/bookbot/core/cmd"
	coreconfig "github.com/mkruglov/bookbot/core/config"
	coredatabase "github.com/mkruglov/bookbot/core/database"
	"github.com/mkruglov/bookbot/core/logger"
	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/bot"
	"github.com/mkruglov/bookbot/internal/i18n"
	"log/slog"

	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	// Overrides from .env sit below real environment variables.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		Bootstrap:         buildApp,
	})
	if err != nil {
		log.Fatalf("bookbot: %v", err)
	}
}

func buildApp(cfg *coreconfig.Config) (cmd.TelegramApp, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config: cfg,
		Database: coredatabase.Config{
			URI:            cfg.Book.URI,
			MaxConnections: cfg.Book.MaxConnections,
		},
		Migrations: book.Migrations(),
		Dir:        book.MigrationsDir,
	})
	if err != nil {
		return nil, err
	}

	tr, err := i18n.Load(cfg.UI.Locale, cfg.UI.I18NFile)
	if err != nil {
		// The built-in fallback phrases keep the bot usable without a catalog.
		logger.I18N.Warn("i18n.load",
			slog.String("event", "degraded"),
			slog.String("err", err.Error()),
		)
		tr = i18n.New(cfg.UI.Locale, nil)
	}

	return bot.New(cfg, res.DB, tr), nil
}
