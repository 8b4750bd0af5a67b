package bot

import (
	"context"
	"errors"

	"github.com/mkruglov/bookbot/core/logger"
	"github.com/mkruglov/bookbot/core/telegram/callbacks"
	"github.com/mkruglov/bookbot/core/telegram/helpers"
	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/views"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (a *App) handleStart(c tele.Context) error {
	return helpers.SendText(c, a.tr.T("start_message"))
}

func (a *App) handleHelp(c tele.Context) error {
	return helpers.SendText(c, a.tr.T("help_message"))
}

// handleCancel abandons an in-flight transfer conversation.
func (a *App) handleCancel(c tele.Context) error {
	if c.Sender() != nil {
		a.flow.Reset(c.Sender().ID)
	}
	return helpers.SendText(c, a.tr.T("flow_cancelled"))
}

func (a *App) handleAccounts(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	text, markup, err := a.renderAccount(ctx, views.RootRef)
	if err != nil {
		return a.replyError(c, err)
	}
	return helpers.SendMenu(c, text, markup)
}

// callbackAccount navigates the account tree, editing the menu in place.
func (a *App) callbackAccount(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	ref, err := parseAccountRef(callbacks.CallbackPayload(c))
	if err != nil {
		return a.replyError(c, err)
	}

	text, markup, err := a.renderAccount(ctx, ref)
	if err != nil {
		return a.replyError(c, err)
	}
	return c.Edit(text, markup)
}

func (a *App) callbackJournal(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	guid, page, err := parseJournalRef(callbacks.CallbackPayload(c))
	if err != nil {
		return a.replyError(c, err)
	}

	b := a.books.Open()
	acc, err := b.Account(ctx, guid)
	if err != nil {
		return a.replyError(c, err)
	}

	entries, total, err := b.Journal(ctx, acc, page, a.cfg.UI.PageSize)
	if err != nil {
		return a.replyError(c, err)
	}

	logger.SVCJournal.Debug("journal.page",
		slog.String("event", "render"),
		slog.String("account", acc.Name),
		slog.Int("page", page),
		slog.Int("entries", len(entries)),
	)

	text, markup := views.JournalPage(a.tr, views.JournalPageData{
		Account:  acc,
		Entries:  entries,
		Page:     page,
		PageSize: a.cfg.UI.PageSize,
		Total:    total,
	})
	return c.Edit(text, markup)
}

// renderAccount assembles the menu screen for a guid or the root sentinel.
func (a *App) renderAccount(ctx context.Context, ref string) (string, *tele.ReplyMarkup, error) {
	b := a.books.Open()

	var (
		acc *book.Account
		err error
	)
	if ref == views.RootRef {
		acc, err = b.Root(ctx)
	} else {
		acc, err = b.Account(ctx, ref)
	}
	if err != nil {
		return "", nil, err
	}

	data := views.AccountMenuData{Account: acc}
	if !acc.IsRoot() {
		if data.Balance, err = b.Balance(ctx, acc); err != nil {
			return "", nil, err
		}
		parent, err := b.Parent(ctx, acc)
		if err != nil {
			return "", nil, err
		}
		if parent.IsRoot() {
			data.ParentRef = views.RootRef
		} else {
			data.ParentRef = parent.GUID
		}
	}
	for _, child := range acc.Children {
		child := child
		bal, err := b.Balance(ctx, &child)
		if err != nil {
			return "", nil, err
		}
		data.Children = append(data.Children, views.ChildItem{Account: child, Balance: bal})
	}

	text, markup := views.AccountMenu(a.tr, data)
	return text, markup, nil
}

// replyError maps domain failures to short user-facing notices.
func (a *App) replyError(c tele.Context, err error) error {
	var key string
	switch {
	case errors.Is(err, ErrBadPayload):
		key = "unknown_action"
	case errors.Is(err, book.ErrAccountNotFound):
		key = "account_not_found"
	case errors.Is(err, book.ErrNotPostable):
		key = "account_not_postable"
	case errors.Is(err, book.ErrReadOnly):
		key = "book_read_only"
	default:
		logger.TG.Error("handler error",
			slog.String("event", "handler.error"),
			slog.String("err", err.Error()),
		)
		key = "internal_error"
	}
	return c.Send(a.tr.T(key))
}
