package bot

// fallbackPhrases backs every key the bot renders, so a sparse or
// missing catalog file still yields readable English.
var fallbackPhrases = map[string]string{
	"cmd_start_desc":    "Greeting and quick intro",
	"cmd_help_desc":     "How to use the bot",
	"cmd_accounts_desc": "Browse the account tree",
	"cmd_cancel_desc":   "Abandon the current entry",

	"start_message": "Hi! This bot browses your ledger. Try /accounts.",
	"help_message": "/accounts shows the top-level accounts. Tap an account to " +
		"drill down, open its journal or start a transfer. /cancel abandons " +
		"a half-entered transfer.",
	"flow_cancelled": "Cancelled.",

	"accounts_title": "Top-level accounts",
	"balance_line":   "Balance: %s %s",

	"btn_journal":  "Journal",
	"btn_transfer": "Transfer",
	"btn_confirm":  "✅ Confirm",
	"btn_cancel":   "❌ Cancel",
	"btn_prev":     "⬅️",
	"btn_next":     "➡️",
	"btn_back":     "Back",

	"journal_header": "%s — page %d/%d",
	"journal_empty":  "No entries yet.",

	"transfer_pick_title": "Transfer from %s. Pick the second account:",
	"btn_pick_account":    "✅ Transfer to %s",
	"transfer_confirm":    "Transfer from %s to %s?",
	"ask_description":     "Transfer from %s to %s. Enter a description:",
	"ask_amount":          "Enter the amount:",
	"invalid_amount":      "That is not a valid amount, try again:",
	"transfer_done":       "Booked: %s, %s",
	"flow_expired":        "This transfer is no longer available. Start again from /accounts.",

	"unknown_action":       "Unsupported action.",
	"account_not_found":    "Account not found.",
	"account_not_postable": "That account cannot take entries.",
	"book_read_only":       "The book is opened read-only.",
	"internal_error":       "Something went wrong.",
}
