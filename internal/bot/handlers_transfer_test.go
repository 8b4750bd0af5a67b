package bot

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	coreconfig "github.com/mkruglov/bookbot/core/config"
	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/i18n"
	"github.com/mkruglov/bookbot/internal/pending"
	"github.com/mkruglov/bookbot/internal/views"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	_ "github.com/mattn/go-sqlite3"
)

const (
	guidCurrency = "000000000000000000000000000000aa"
	guidRoot     = "00000000000000000000000000000001"
	guidWallet   = "000000000000000000000000000000b1"
	guidChecking = "000000000000000000000000000000b2"
	guidSub      = "000000000000000000000000000000b3"
	guidFood     = "000000000000000000000000000000c1"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	schema, err := fs.ReadFile(book.Migrations(), "migrations/000001_ledger_schema.up.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.Exec(db.Rebind(query), args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	exec(`INSERT INTO commodities (guid, namespace, mnemonic, fullname, fraction, quote_flag)
		VALUES (?, 'CURRENCY', 'EUR', 'Euro', 100, 0)`, guidCurrency)
	for _, a := range []struct {
		guid, name, typ, parent string
	}{
		{guidWallet, "Wallet", book.TypeCash, guidRoot},
		{guidChecking, "Checking", book.TypeBank, guidRoot},
		{guidSub, "Sub", book.TypeBank, guidChecking},
		{guidFood, "Food", book.TypeExpense, guidRoot},
	} {
		exec(`INSERT INTO accounts
			(guid, name, account_type, commodity_guid, commodity_scu, non_std_scu, parent_guid, code, description, hidden, placeholder)
			VALUES (?, ?, ?, ?, 100, 0, ?, '', '', 0, 0)`,
			a.guid, a.name, a.typ, guidCurrency, a.parent)
	}

	cfg := &coreconfig.Config{}
	cfg.UI.PageSize = 5
	return New(cfg, db, i18n.New("en", nil))
}

type captured struct {
	text   string
	markup *tele.ReplyMarkup
}

// fakeTele covers the slice of tele.Context the handlers touch; anything
// else panics through the embedded nil interface.
type fakeTele struct {
	tele.Context
	chat    *tele.Chat
	sender  *tele.User
	message *tele.Message
	cbData  string
	text    string
	store   map[string]any

	edits []captured
	sends []captured
}

func newFakeTele() *fakeTele {
	return &fakeTele{
		chat:    &tele.Chat{ID: 100},
		sender:  &tele.User{ID: 100},
		message: &tele.Message{ID: 7},
		store:   map[string]any{},
	}
}

func (f *fakeTele) Update() tele.Update    { return tele.Update{} }
func (f *fakeTele) Chat() *tele.Chat       { return f.chat }
func (f *fakeTele) Sender() *tele.User     { return f.sender }
func (f *fakeTele) Message() *tele.Message { return f.message }
func (f *fakeTele) Text() string           { return f.text }
func (f *fakeTele) Get(key string) any     { return f.store[key] }
func (f *fakeTele) Set(key string, v any)  { f.store[key] = v }

func (f *fakeTele) Callback() *tele.Callback {
	if f.cbData == "" {
		return nil
	}
	return &tele.Callback{Data: f.cbData, Message: f.message}
}

func capture(what any, opts []any) captured {
	c := captured{}
	if s, ok := what.(string); ok {
		c.text = s
	}
	for _, opt := range opts {
		switch v := opt.(type) {
		case *tele.ReplyMarkup:
			c.markup = v
		case *tele.SendOptions:
			if v != nil {
				c.markup = v.ReplyMarkup
			}
		}
	}
	return c
}

func (f *fakeTele) Edit(what any, opts ...any) error {
	f.edits = append(f.edits, capture(what, opts))
	return nil
}

func (f *fakeTele) Send(what any, opts ...any) error {
	f.sends = append(f.sends, capture(what, opts))
	return nil
}

func findButton(markup *tele.ReplyMarkup, unique string) (tele.InlineButton, bool) {
	if markup == nil {
		return tele.InlineButton{}, false
	}
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.Unique == unique {
				return btn, true
			}
		}
	}
	return tele.InlineButton{}, false
}

// Tapping a postable account in the destination picker shows its
// subtree plus a select button, so its children stay reachable.
func TestPickerDescendsIntoPostableAccount(t *testing.T) {
	app := newTestApp(t)
	c := newFakeTele()
	c.cbData = views.CBTransferPick + "|" + guidWallet + views.PayloadSep + guidChecking

	if err := app.callbackTransferPick(c); err != nil {
		t.Fatalf("callbackTransferPick: %v", err)
	}
	if len(c.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(c.edits))
	}
	markup := c.edits[0].markup

	sel, ok := findButton(markup, views.CBTransferSelect)
	if !ok {
		t.Fatal("no select button for the postable node")
	}
	if sel.Data != guidWallet+views.PayloadSep+guidChecking {
		t.Errorf("select payload = %q", sel.Data)
	}

	child, ok := findButton(markup, views.CBTransferPick)
	if !ok {
		t.Fatal("child account missing from the picker")
	}
	if child.Data != guidWallet+views.PayloadSep+guidSub {
		t.Errorf("child payload = %q", child.Data)
	}
}

func TestSelectStagesPairAndAsksConfirmation(t *testing.T) {
	app := newTestApp(t)
	c := newFakeTele()
	c.cbData = views.CBTransferSelect + "|" + guidWallet + views.PayloadSep + guidChecking

	if err := app.callbackTransferSelect(c); err != nil {
		t.Fatalf("callbackTransferSelect: %v", err)
	}
	if len(c.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(c.edits))
	}
	if got := c.edits[0].text; !strings.Contains(got, "Wallet") || !strings.Contains(got, "Checking") {
		t.Errorf("confirmation text = %q", got)
	}
	if _, ok := findButton(c.edits[0].markup, views.CBTransferOK); !ok {
		t.Error("no confirm button")
	}
	if _, ok := findButton(c.edits[0].markup, views.CBTransferCancel); !ok {
		t.Error("no cancel button")
	}

	key := pending.Key{ChatID: c.chat.ID, MessageID: c.message.ID}
	if srcGUID, ok := app.flow.Cancel(key); !ok || srcGUID != guidWallet {
		t.Errorf("staged pair = %q, %v", srcGUID, ok)
	}
}

func TestSelectRejectsNonPostable(t *testing.T) {
	app := newTestApp(t)
	c := newFakeTele()
	c.cbData = views.CBTransferSelect + "|" + guidWallet + views.PayloadSep + views.RootRef

	if err := app.callbackTransferSelect(c); err != nil {
		t.Fatalf("callbackTransferSelect: %v", err)
	}
	if len(c.sends) != 1 || len(c.edits) != 0 {
		t.Fatalf("sends = %d, edits = %d", len(c.sends), len(c.edits))
	}

	key := pending.Key{ChatID: c.chat.ID, MessageID: c.message.ID}
	if _, ok := app.flow.Cancel(key); ok {
		t.Error("nothing should be staged")
	}
}

// A committed transfer reports the booking and returns to the
// top-level account view.
func TestAmountCommitShowsTopLevelMenu(t *testing.T) {
	app := newTestApp(t)
	c := newFakeTele()
	key := pending.Key{ChatID: c.chat.ID, MessageID: c.message.ID}

	app.flow.Stage(key, guidWallet, guidFood)
	if _, _, err := app.flow.Confirm(context.Background(), key, c.sender.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if err := app.flow.SetDescription(c.sender.ID, "Milk"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}

	c.text = "500"
	if err := app.fsmAmount(c); err != nil {
		t.Fatalf("fsmAmount: %v", err)
	}
	if len(c.sends) != 2 {
		t.Fatalf("sends = %d, want 2", len(c.sends))
	}
	if !strings.Contains(c.sends[0].text, "Milk") {
		t.Errorf("booking notice = %q", c.sends[0].text)
	}
	if !strings.Contains(c.sends[1].text, "Top-level accounts") {
		t.Errorf("follow-up menu = %q", c.sends[1].text)
	}
	if btn, ok := findButton(c.sends[1].markup, views.CBAccount); !ok || btn.Data == "" {
		t.Error("menu should list the top-level accounts")
	}
}
