package book

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account types as stored in the accounts.account_type column.
const (
	TypeRoot       = "ROOT"
	TypeAsset      = "ASSET"
	TypeBank       = "BANK"
	TypeCash       = "CASH"
	TypeCredit     = "CREDIT"
	TypeEquity     = "EQUITY"
	TypeExpense    = "EXPENSE"
	TypeIncome     = "INCOME"
	TypeLiability  = "LIABILITY"
	TypePayable    = "PAYABLE"
	TypeReceivable = "RECEIVABLE"
)

// Commodity is the currency (or instrument) an account is denominated in.
type Commodity struct {
	GUID     string `db:"guid"`
	Mnemonic string `db:"mnemonic"`
	Fraction int64  `db:"fraction"`
}

// Account is a node of the account tree.
type Account struct {
	GUID        string  `db:"guid"`
	Name        string  `db:"name"`
	Type        string  `db:"account_type"`
	ParentGUID  *string `db:"parent_guid"`
	Placeholder bool    `db:"placeholder"`
	Hidden      bool    `db:"hidden"`

	Commodity Commodity `db:"commodity"`

	// Children is populated by Tree-style queries, account_code order.
	Children []Account
}

// IsRoot reports whether the account is the tree root.
func (a *Account) IsRoot() bool { return a.Type == TypeRoot }

// Postable reports whether splits may be booked against the account.
func (a *Account) Postable() bool {
	return !a.Placeholder && !a.IsRoot()
}

// naturalSignFlip holds account types whose balances are displayed with
// the sign inverted relative to the stored split values.
var naturalSignFlip = map[string]bool{
	TypeIncome:    true,
	TypeLiability: true,
	TypeEquity:    true,
	TypePayable:   true,
	TypeCredit:    true,
}

// NaturalSign returns -1 for account types displayed sign-flipped, 1 otherwise.
func NaturalSign(accountType string) int {
	if naturalSignFlip[accountType] {
		return -1
	}
	return 1
}

// Transaction is the header row shared by a set of splits.
type Transaction struct {
	GUID         string `db:"guid"`
	CurrencyGUID string `db:"currency_guid"`
	Num          string `db:"num"`
	PostDate     string `db:"post_date"`
	EnterDate    string `db:"enter_date"`
	Description  string `db:"description"`
}

// Split moves value between a transaction and a single account.
type Split struct {
	GUID        string `db:"guid"`
	TxGUID      string `db:"tx_guid"`
	AccountGUID string `db:"account_guid"`
	Memo        string `db:"memo"`
	ValueNum    int64  `db:"value_num"`
	ValueDenom  int64  `db:"value_denom"`
}

// Value returns the split value as an exact decimal.
func (s *Split) Value() decimal.Decimal {
	return ratio(s.ValueNum, s.ValueDenom)
}

// JournalEntry is one transaction as seen from a particular account:
// the account's own movement plus the counterpart legs.
type JournalEntry struct {
	TxGUID      string
	PostDate    string
	Description string
	Amount      decimal.Decimal
	Siblings    []JournalLeg
}

// JournalLeg is a counterpart split with its account name resolved.
type JournalLeg struct {
	AccountName string
	Amount      decimal.Decimal
}

func ratio(num, denom int64) decimal.Decimal {
	if denom == 0 {
		return decimal.Zero
	}
	return decimal.New(num, 0).Div(decimal.New(denom, 0))
}

// NewGUID produces a fresh 32-hex identifier in the format the schema uses.
func NewGUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
