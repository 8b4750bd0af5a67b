package views

import (
	"strings"
	"testing"

	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/i18n"

	"github.com/shopspring/decimal"
)

func testTranslator() *i18n.Translator {
	return i18n.New("en", map[string]string{
		"accounts_title":      "Top-level accounts",
		"balance_line":        "Balance: %s %s",
		"btn_journal":         "Journal",
		"btn_transfer":        "Transfer",
		"btn_confirm":         "Confirm",
		"btn_cancel":          "Cancel",
		"btn_prev":            "Prev",
		"btn_next":            "Next",
		"btn_back":            "Back",
		"journal_header":      "%s, page %d/%d",
		"journal_empty":       "No entries yet.",
		"transfer_pick_title": "Transfer from %s to:",
		"btn_pick_account":    "Transfer to %s",
		"transfer_confirm":    "Transfer from %s to %s?",
	})
}

func eur() book.Commodity {
	return book.Commodity{GUID: "cur", Mnemonic: "EUR", Fraction: 100}
}

func wallet() *book.Account {
	return &book.Account{GUID: strings.Repeat("a", 32), Name: "Wallet", Type: book.TypeCash, Commodity: eur()}
}

func TestAccountMenuRoot(t *testing.T) {
	tr := testTranslator()
	root := &book.Account{GUID: strings.Repeat("0", 32), Name: "Root", Type: book.TypeRoot}

	text, markup := AccountMenu(tr, AccountMenuData{
		Account: root,
		Children: []ChildItem{
			{Account: *wallet(), Balance: decimal.RequireFromString("12.50")},
		},
	})

	if !strings.Contains(text, "Top-level accounts") {
		t.Errorf("root text = %q", text)
	}
	// Root is not postable and has no parent: exactly one child row.
	if len(markup.InlineKeyboard) != 1 {
		t.Fatalf("rows = %d, want 1", len(markup.InlineKeyboard))
	}
	btn := markup.InlineKeyboard[0][0]
	if !strings.Contains(btn.Text, "Wallet") || !strings.Contains(btn.Text, "12.50") || !strings.Contains(btn.Text, "EUR") {
		t.Errorf("child label = %q", btn.Text)
	}
	if btn.Unique != CBAccount || btn.Data != wallet().GUID {
		t.Errorf("child button = %q %q", btn.Unique, btn.Data)
	}
}

func TestAccountMenuPostable(t *testing.T) {
	tr := testTranslator()
	acc := wallet()

	text, markup := AccountMenu(tr, AccountMenuData{
		Account:   acc,
		Balance:   decimal.RequireFromString("99.00"),
		ParentRef: RootRef,
	})

	if !strings.Contains(text, "Wallet") || !strings.Contains(text, "99.00 EUR") {
		t.Errorf("text = %q", text)
	}
	// Action row plus up button.
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	actions := markup.InlineKeyboard[0]
	if len(actions) != 2 || actions[0].Unique != CBJournal || actions[1].Unique != CBNewTransfer {
		t.Errorf("action row = %+v", actions)
	}
	if actions[0].Data != acc.GUID+PayloadSep+"0" {
		t.Errorf("journal payload = %q", actions[0].Data)
	}
	up := markup.InlineKeyboard[1][0]
	if up.Text != "<<<" || up.Unique != CBAccount || up.Data != RootRef {
		t.Errorf("up button = %+v", up)
	}
}

func TestDestinationPicker(t *testing.T) {
	tr := testTranslator()
	src := wallet()
	food := book.Account{GUID: strings.Repeat("c", 32), Name: "Food", Type: book.TypeExpense, Commodity: eur()}
	root := &book.Account{GUID: strings.Repeat("0", 32), Name: "Root", Type: book.TypeRoot, Children: []book.Account{food}}

	_, markup := DestinationPicker(tr, PickerData{
		SrcGUID: src.GUID,
		SrcName: src.Name,
		Node:    root,
	})

	// One child plus the cancel row.
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	pick := markup.InlineKeyboard[0][0]
	if pick.Unique != CBTransferPick || pick.Data != src.GUID+PayloadSep+food.GUID {
		t.Errorf("pick button = %q %q", pick.Unique, pick.Data)
	}
	cancel := markup.InlineKeyboard[1][0]
	if cancel.Unique != CBAccount || cancel.Data != src.GUID {
		t.Errorf("cancel button = %q %q", cancel.Unique, cancel.Data)
	}
}

// A postable node in the picker offers both a select button and its
// children, so accounts below it remain pickable.
func TestDestinationPickerPostableNode(t *testing.T) {
	tr := testTranslator()
	src := wallet()
	sub := book.Account{GUID: strings.Repeat("d", 32), Name: "Sub", Type: book.TypeBank, Commodity: eur()}
	checking := &book.Account{
		GUID:      strings.Repeat("c", 32),
		Name:      "Checking",
		Type:      book.TypeBank,
		Commodity: eur(),
		Children:  []book.Account{sub},
	}

	text, markup := DestinationPicker(tr, PickerData{
		SrcGUID:   src.GUID,
		SrcName:   src.Name,
		Node:      checking,
		ParentRef: RootRef,
	})

	if !strings.Contains(text, "Wallet") {
		t.Errorf("text = %q", text)
	}
	// Select row, one child, up button, cancel row.
	if len(markup.InlineKeyboard) != 4 {
		t.Fatalf("rows = %d, want 4", len(markup.InlineKeyboard))
	}
	sel := markup.InlineKeyboard[0][0]
	if sel.Unique != CBTransferSelect || sel.Data != src.GUID+PayloadSep+checking.GUID {
		t.Errorf("select button = %q %q", sel.Unique, sel.Data)
	}
	if !strings.Contains(sel.Text, "Checking") {
		t.Errorf("select label = %q", sel.Text)
	}
	child := markup.InlineKeyboard[1][0]
	if child.Unique != CBTransferPick || child.Data != src.GUID+PayloadSep+sub.GUID {
		t.Errorf("child button = %q %q", child.Unique, child.Data)
	}
	up := markup.InlineKeyboard[2][0]
	if up.Text != "<<<" || up.Unique != CBTransferPick || up.Data != src.GUID+PayloadSep+RootRef {
		t.Errorf("up button = %+v", up)
	}
}

func TestJournalPagePager(t *testing.T) {
	tr := testTranslator()
	acc := wallet()
	entry := book.JournalEntry{
		TxGUID:      strings.Repeat("b", 32),
		PostDate:    "2026-08-02 10:00:00",
		Description: "milk",
		Amount:      decimal.RequireFromString("-5.00"),
		Siblings:    []book.JournalLeg{{AccountName: "Food", Amount: decimal.RequireFromString("5.00")}},
	}

	cases := []struct {
		name               string
		page, size, total  int
		wantPrev, wantNext bool
	}{
		{"first of many", 0, 5, 12, false, true},
		{"middle", 1, 5, 12, true, true},
		{"last full", 2, 5, 12, true, false},
		{"exact boundary", 1, 5, 10, true, false},
		{"single page", 0, 5, 3, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := JournalPageData{Account: acc, Entries: []book.JournalEntry{entry}, Page: tc.page, PageSize: tc.size, Total: tc.total}
			if d.HasPrev() != tc.wantPrev {
				t.Errorf("HasPrev = %v, want %v", d.HasPrev(), tc.wantPrev)
			}
			if d.HasNext() != tc.wantNext {
				t.Errorf("HasNext = %v, want %v", d.HasNext(), tc.wantNext)
			}

			_, markup := JournalPage(tr, d)
			pagerButtons := 0
			if tc.wantPrev {
				pagerButtons++
			}
			if tc.wantNext {
				pagerButtons++
			}
			wantRows := 1 // back row
			if pagerButtons > 0 {
				wantRows++
			}
			if len(markup.InlineKeyboard) != wantRows {
				t.Fatalf("rows = %d, want %d", len(markup.InlineKeyboard), wantRows)
			}
			if pagerButtons > 0 && len(markup.InlineKeyboard[0]) != pagerButtons {
				t.Errorf("pager buttons = %d, want %d", len(markup.InlineKeyboard[0]), pagerButtons)
			}
		})
	}
}

func TestJournalPageText(t *testing.T) {
	tr := testTranslator()
	acc := wallet()

	text, _ := JournalPage(tr, JournalPageData{
		Account: acc,
		Entries: []book.JournalEntry{{
			PostDate:    "2026-08-02 10:00:00",
			Description: "milk",
			Amount:      decimal.RequireFromString("-5.00"),
			Siblings:    []book.JournalLeg{{AccountName: "Food", Amount: decimal.RequireFromString("5.00")}},
		}},
		Page: 0, PageSize: 5, Total: 1,
	})

	for _, want := range []string{"Wallet, page 1/1", "02.08.2026", "milk", "-5.00 EUR", "Food"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q in %q", want, text)
		}
	}

	empty, _ := JournalPage(tr, JournalPageData{Account: acc, Page: 0, PageSize: 5, Total: 0})
	if !strings.Contains(empty, "No entries yet.") {
		t.Errorf("empty journal text = %q", empty)
	}
}
