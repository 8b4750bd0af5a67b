package transfer

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/mkruglov/bookbot/core/telegram/state"
	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/pending"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"
)

const (
	guidCurrency = "000000000000000000000000000000aa"
	guidRoot     = "00000000000000000000000000000001"
	guidAssets   = "000000000000000000000000000000a1"
	guidWallet   = "000000000000000000000000000000a2"
	guidFood     = "000000000000000000000000000000c1"
)

func newTestFlow(t *testing.T) (*Flow, *sqlx.DB, state.Manager) {
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
		placeholder             int
	}{
		{guidAssets, "Assets", book.TypeAsset, guidRoot, 1},
		{guidWallet, "Wallet", book.TypeCash, guidAssets, 0},
		{guidFood, "Food", book.TypeExpense, guidRoot, 0},
	} {
		exec(`INSERT INTO accounts
			(guid, name, account_type, commodity_guid, commodity_scu, non_std_scu, parent_guid, code, description, hidden, placeholder)
			VALUES (?, ?, ?, ?, 100, 0, ?, '', '', 0, ?)`,
			a.guid, a.name, a.typ, guidCurrency, a.parent, a.placeholder)
	}

	states := state.NewMemoryManager()
	flow := NewFlow(book.NewOpener(db, false), pending.NewStore(0), states)
	return flow, db, states
}

func TestFlowCommitsBalancedTransfer(t *testing.T) {
	flow, db, states := newTestFlow(t)
	ctx := context.Background()
	const userID int64 = 100
	key := pending.Key{ChatID: 100, MessageID: 1}

	src, err := flow.Offer(ctx, guidWallet)
	if err != nil {
		t.Fatalf("Offer: %v", err)
	}
	if src.Name != "Wallet" {
		t.Errorf("Offer src = %q", src.Name)
	}

	flow.Stage(key, guidWallet, guidFood)

	src, dst, err := flow.Confirm(ctx, key, userID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if src.GUID != guidWallet || dst.GUID != guidFood {
		t.Errorf("Confirm pair = %s -> %s", src.GUID, dst.GUID)
	}
	if st := states.GetState(userID); st != StateDescription {
		t.Errorf("state after confirm = %q", st)
	}

	if err := flow.SetDescription(userID, "Milk"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if st := states.GetState(userID); st != StateAmount {
		t.Errorf("state after description = %q", st)
	}

	res, err := flow.SubmitAmount(ctx, userID, "500")
	if err != nil {
		t.Fatalf("SubmitAmount: %v", err)
	}
	if res.Description != "Milk" || !res.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("result = %+v", res)
	}
	if states.InProgress(userID) {
		t.Error("conversation should end after commit")
	}

	var nums []int64
	if err := db.Select(&nums, db.Rebind(
		`SELECT value_num FROM splits WHERE tx_guid = ? ORDER BY value_num`), res.TxGUID); err != nil {
		t.Fatalf("select splits: %v", err)
	}
	if len(nums) != 2 || nums[0] != -50000 || nums[1] != 50000 {
		t.Errorf("split values = %v", nums)
	}
}

// A negative amount books the same pair with the legs reversed.
func TestFlowNegativeAmountBooksReversed(t *testing.T) {
	flow, db, _ := newTestFlow(t)
	ctx := context.Background()
	const userID int64 = 100
	key := pending.Key{ChatID: 100, MessageID: 5}

	flow.Stage(key, guidWallet, guidFood)
	if _, _, err := flow.Confirm(ctx, key, userID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if err := flow.SetDescription(userID, "Refund"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}

	res, err := flow.SubmitAmount(ctx, userID, "-500")
	if err != nil {
		t.Fatalf("SubmitAmount(-500): %v", err)
	}
	if !res.Amount.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("amount = %s", res.Amount)
	}

	var walletNum int64
	if err := db.Get(&walletNum, db.Rebind(
		`SELECT value_num FROM splits WHERE tx_guid = ? AND account_guid = ?`), res.TxGUID, guidWallet); err != nil {
		t.Fatalf("select wallet split: %v", err)
	}
	if walletNum != 50000 {
		t.Errorf("wallet leg = %d, want 50000", walletNum)
	}
}

// The description is stored as typed, whitespace and all.
func TestFlowDescriptionVerbatim(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	ctx := context.Background()
	const userID int64 = 100
	key := pending.Key{ChatID: 100, MessageID: 6}

	flow.Stage(key, guidWallet, guidFood)
	if _, _, err := flow.Confirm(ctx, key, userID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if err := flow.SetDescription(userID, "  two  words  "); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}

	res, err := flow.SubmitAmount(ctx, userID, "100")
	if err != nil {
		t.Fatalf("SubmitAmount: %v", err)
	}
	if res.Description != "  two  words  " {
		t.Errorf("description = %q", res.Description)
	}
}

func TestFlowInvalidAmountKeepsState(t *testing.T) {
	flow, _, states := newTestFlow(t)
	ctx := context.Background()
	const userID int64 = 100
	key := pending.Key{ChatID: 100, MessageID: 2}

	flow.Stage(key, guidWallet, guidFood)
	if _, _, err := flow.Confirm(ctx, key, userID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if err := flow.SetDescription(userID, "Milk"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}

	if _, err := flow.SubmitAmount(ctx, userID, "abc"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("SubmitAmount(abc) err = %v", err)
	}
	if _, err := flow.SubmitAmount(ctx, userID, "0"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("SubmitAmount(0) err = %v", err)
	}
	if st := states.GetState(userID); st != StateAmount {
		t.Errorf("state after invalid amount = %q, want re-prompt in amount step", st)
	}

	// The retry with a valid value still lands.
	if _, err := flow.SubmitAmount(ctx, userID, "250"); err != nil {
		t.Errorf("SubmitAmount(250) after retry: %v", err)
	}
}

func TestFlowCancel(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	ctx := context.Background()
	key := pending.Key{ChatID: 100, MessageID: 3}

	flow.Stage(key, guidWallet, guidFood)

	srcGUID, ok := flow.Cancel(key)
	if !ok || srcGUID != guidWallet {
		t.Errorf("Cancel = %q, %v", srcGUID, ok)
	}
	if _, ok := flow.Cancel(key); ok {
		t.Error("second Cancel should find nothing")
	}
	if _, _, err := flow.Confirm(ctx, key, 100); !errors.Is(err, ErrFlowExpired) {
		t.Errorf("Confirm after cancel err = %v", err)
	}
}

func TestFlowRejectsNonPostable(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	ctx := context.Background()

	if _, err := flow.Offer(ctx, guidAssets); !errors.Is(err, book.ErrNotPostable) {
		t.Errorf("Offer(placeholder) err = %v", err)
	}

	key := pending.Key{ChatID: 100, MessageID: 4}
	flow.Stage(key, guidWallet, guidAssets)
	if _, _, err := flow.Confirm(ctx, key, 100); !errors.Is(err, book.ErrNotPostable) {
		t.Errorf("Confirm(placeholder dst) err = %v", err)
	}
}

func TestFlowStepsOutOfOrder(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	ctx := context.Background()

	if err := flow.SetDescription(100, "Milk"); !errors.Is(err, ErrFlowExpired) {
		t.Errorf("SetDescription without confirm err = %v", err)
	}
	if _, err := flow.SubmitAmount(ctx, 100, "500"); !errors.Is(err, ErrFlowExpired) {
		t.Errorf("SubmitAmount without confirm err = %v", err)
	}
}
