package views

import (
	"strconv"
	"strings"
	"time"

	"github.com/mkruglov/bookbot/core/telegram/keyboard"
	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/i18n"

	tele "gopkg.in/telebot.v4"
)

const journalDateLayout = "2006-01-02 15:04:05"

// JournalPageData carries one page of an account's journal.
type JournalPageData struct {
	Account  *book.Account
	Entries  []book.JournalEntry
	Page     int
	PageSize int
	Total    int
}

// HasPrev reports whether an earlier (newer) page exists.
func (d JournalPageData) HasPrev() bool { return d.Page > 0 }

// HasNext reports whether another page follows this one.
func (d JournalPageData) HasNext() bool {
	return (d.Page+1)*d.PageSize < d.Total
}

// Pages returns the page count for the header, at least 1.
func (d JournalPageData) Pages() int {
	if d.Total == 0 || d.PageSize <= 0 {
		return 1
	}
	return (d.Total + d.PageSize - 1) / d.PageSize
}

// JournalPage renders a page of transactions, newest first, each with
// its counterpart legs indented below, plus pager and back buttons.
func JournalPage(tr *i18n.Translator, d JournalPageData) (string, *tele.ReplyMarkup) {
	var sb strings.Builder
	sb.WriteString(tr.T("journal_header", d.Account.Name, d.Page+1, d.Pages()))
	sb.WriteString("\n")

	if len(d.Entries) == 0 {
		sb.WriteString(tr.T("journal_empty"))
	}
	for _, e := range d.Entries {
		sb.WriteString("\n")
		sb.WriteString(journalDate(e.PostDate))
		sb.WriteString("  ")
		sb.WriteString(e.Description)
		sb.WriteString("  ")
		sb.WriteString(formatAmount(e.Amount))
		sb.WriteString(" ")
		sb.WriteString(d.Account.Commodity.Mnemonic)
		for _, leg := range e.Siblings {
			sb.WriteString("\n    ")
			sb.WriteString(leg.AccountName)
			sb.WriteString("  ")
			sb.WriteString(formatAmount(leg.Amount))
		}
	}

	var pager []keyboard.InlineBtn
	if d.HasPrev() {
		pager = append(pager, keyboard.InlineBtn{
			Text:   tr.T("btn_prev"),
			Unique: CBJournal,
			Data:   journalRef(d.Account.GUID, d.Page-1),
		})
	}
	if d.HasNext() {
		pager = append(pager, keyboard.InlineBtn{
			Text:   tr.T("btn_next"),
			Unique: CBJournal,
			Data:   journalRef(d.Account.GUID, d.Page+1),
		})
	}

	var rows [][]keyboard.InlineBtn
	if len(pager) > 0 {
		rows = append(rows, pager)
	}
	rows = append(rows, []keyboard.InlineBtn{{
		Text:   tr.T("btn_back"),
		Unique: CBAccount,
		Data:   d.Account.GUID,
	}})

	return sb.String(), keyboard.InlineButtonsRows(rows...)
}

func journalRef(guid string, page int) string {
	return guid + PayloadSep + strconv.Itoa(page)
}

func journalDate(postDate string) string {
	t, err := time.Parse(journalDateLayout, postDate)
	if err != nil {
		return postDate
	}
	return t.Format("02.01.2006")
}
