package views

import (
	"fmt"
	"strings"

	"github.com/mkruglov/bookbot/core/telegram/keyboard"
	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/i18n"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

// ChildItem pairs a child account with its computed balance for display.
type ChildItem struct {
	Account book.Account
	Balance decimal.Decimal
}

// AccountMenuData carries everything the account screen shows.
type AccountMenuData struct {
	Account  *book.Account
	Balance  decimal.Decimal
	Children []ChildItem

	// ParentRef is the payload of the up button: RootRef or a guid.
	// Empty for the root itself.
	ParentRef string
}

// AccountMenu renders the account screen: action row for postable
// accounts, one row per child, and an up button below the tree root.
func AccountMenu(tr *i18n.Translator, d AccountMenuData) (string, *tele.ReplyMarkup) {
	var text string
	if d.Account.IsRoot() {
		text = centerDashed(tr.T("accounts_title"))
	} else {
		text = centerDashed(d.Account.Name) + "\n" +
			tr.T("balance_line", formatAmount(d.Balance), d.Account.Commodity.Mnemonic)
	}

	var rows [][]keyboard.InlineBtn
	if d.Account.Postable() {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: tr.T("btn_journal"), Unique: CBJournal, Data: d.Account.GUID + PayloadSep + "0"},
			{Text: tr.T("btn_transfer"), Unique: CBNewTransfer, Data: d.Account.GUID},
		})
	}
	for _, child := range d.Children {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   childLabel(child),
			Unique: CBAccount,
			Data:   child.Account.GUID,
		}})
	}
	if d.ParentRef != "" {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   "<<<",
			Unique: CBAccount,
			Data:   d.ParentRef,
		}})
	}

	return text, keyboard.InlineButtonsRows(rows...)
}

// PickerData carries the destination-chooser screen for a transfer
// starting at SrcGUID.
type PickerData struct {
	SrcGUID   string
	SrcName   string
	Node      *book.Account
	ParentRef string
}

// DestinationPicker renders the account chooser for the second leg of a
// transfer. Tapping an account descends into its subtree; a postable
// node additionally offers a select button, so its descendants stay
// reachable as destinations in their own right.
func DestinationPicker(tr *i18n.Translator, d PickerData) (string, *tele.ReplyMarkup) {
	text := tr.T("transfer_pick_title", d.SrcName)

	var rows [][]keyboard.InlineBtn
	if d.Node.Postable() {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   tr.T("btn_pick_account", d.Node.Name),
			Unique: CBTransferSelect,
			Data:   d.SrcGUID + PayloadSep + d.Node.GUID,
		}})
	}
	for _, child := range d.Node.Children {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   child.Name,
			Unique: CBTransferPick,
			Data:   d.SrcGUID + PayloadSep + child.GUID,
		}})
	}
	if d.ParentRef != "" {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   "<<<",
			Unique: CBTransferPick,
			Data:   d.SrcGUID + PayloadSep + d.ParentRef,
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{{
		Text:   tr.T("btn_cancel"),
		Unique: CBAccount,
		Data:   d.SrcGUID,
	}})

	return text, keyboard.InlineButtonsRows(rows...)
}

// ConfirmTransfer renders the staged pair with commit and cancel buttons.
// The pending entry is keyed by the message this markup is attached to,
// so the buttons carry no payload.
func ConfirmTransfer(tr *i18n.Translator, src, dst *book.Account) (string, *tele.ReplyMarkup) {
	text := tr.T("transfer_confirm", src.Name, dst.Name)
	rows := [][]keyboard.InlineBtn{{
		{Text: tr.T("btn_confirm"), Unique: CBTransferOK, Data: "_"},
		{Text: tr.T("btn_cancel"), Unique: CBTransferCancel, Data: "_"},
	}}
	return text, keyboard.InlineButtonsRows(rows...)
}

func childLabel(c ChildItem) string {
	return fmt.Sprintf("%-20s %15s %s", c.Account.Name, formatAmount(c.Balance), c.Account.Commodity.Mnemonic)
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func centerDashed(s string) string {
	const width = 50
	if len([]rune(s)) >= width {
		return s
	}
	pad := width - len([]rune(s))
	left := pad / 2
	right := pad - left
	return strings.Repeat("-", left) + s + strings.Repeat("-", right)
}
