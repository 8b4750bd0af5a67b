// Package bot assembles the Telegram application: registry wiring,
// command and callback handlers, and the transfer conversation.
package bot

import (
	"time"

	coreconfig "github.com/mkruglov/bookbot/core/config"
	tg "github.com/mkruglov/bookbot/core/telegram"
	"github.com/mkruglov/bookbot/core/telegram/commands"
	"github.com/mkruglov/bookbot/core/telegram/router"
	"github.com/mkruglov/bookbot/core/telegram/sender"
	"github.com/mkruglov/bookbot/core/telegram/state"
	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/i18n"
	"github.com/mkruglov/bookbot/internal/pending"
	"github.com/mkruglov/bookbot/internal/transfer"
	"github.com/mkruglov/bookbot/internal/views"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"
)

// App owns the bot's domain collaborators and the handler registry.
type App struct {
	cfg    *coreconfig.Config
	tr     *i18n.Translator
	books  *book.Opener
	flow   *transfer.Flow
	states state.Manager
	reg    *tg.Registry
}

// New wires the application over an established database pool.
func New(cfg *coreconfig.Config, db *sqlx.DB, tr *i18n.Translator) *App {
	tr.RegisterFallback(fallbackPhrases)

	books := book.NewOpener(db, cfg.Book.ReadOnly)
	states := state.NewMemoryManager()
	pendingStore := pending.NewStore(cfg.UI.PendingTTL)

	app := &App{
		cfg:    cfg,
		tr:     tr,
		books:  books,
		flow:   transfer.NewFlow(books, pendingStore, states),
		states: states,
		reg:    tg.NewRegistry(),
	}
	app.registerHandlers()
	return app
}

// Registry exposes the handler registry, mainly for tests.
func (a *App) Registry() *tg.Registry { return a.reg }

func (a *App) registerHandlers() {
	a.reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: a.tr.T("cmd_start_desc"),
	})
	a.reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: a.tr.T("cmd_help_desc"),
	})
	a.reg.RegisterCommand("/accounts", commands.Command{
		Handler:     a.handleAccounts,
		Description: a.tr.T("cmd_accounts_desc"),
	})
	a.reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: a.tr.T("cmd_cancel_desc"),
	})

	_ = a.reg.RegisterCallback(views.CBAccount, a.callbackAccount)
	_ = a.reg.RegisterCallback(views.CBJournal, a.callbackJournal)
	_ = a.reg.RegisterCallback(views.CBNewTransfer, a.callbackNewTransfer)
	_ = a.reg.RegisterCallback(views.CBTransferPick, a.callbackTransferPick)
	_ = a.reg.RegisterCallback(views.CBTransferSelect, a.callbackTransferSelect)
	_ = a.reg.RegisterCallback(views.CBTransferOK, a.callbackTransferOK)
	_ = a.reg.RegisterCallback(views.CBTransferCancel, a.callbackTransferCancel)

	state.RegisterHandler(transfer.StateDescription, a.fsmDescription)
	state.RegisterHandler(transfer.StateAmount, a.fsmAmount)

	a.reg.SetCallbackNotFound(func(c tele.Context) error {
		return c.Send(a.tr.T("unknown_action"))
	})
}

// TelegramRunOptions assembles the runtime wiring for tg.RunTelegram.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{
		OwnerID: a.cfg.Telegram.OwnerID,
	})
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.states, a.reg, router.TextOptions{})...)

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		DispatcherOptions: sender.Options{
			MaxDuration: 30 * time.Second,
		},
	}, nil
}
