package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// The root account carries no commodity, hence the COALESCE on the join.
const accountColumns = `
	a.guid, a.name, a.account_type, a.parent_guid, a.placeholder, a.hidden,
	COALESCE(c.guid, '') AS "commodity.guid",
	COALESCE(c.mnemonic, '') AS "commodity.mnemonic",
	COALESCE(c.fraction, 100) AS "commodity.fraction"`

const accountFrom = `
	FROM accounts a
	LEFT JOIN commodities c ON c.guid = a.commodity_guid`

// Root returns the root account with its immediate children attached.
func (b *Book) Root(ctx context.Context) (*Account, error) {
	var acc Account
	query := b.db.Rebind(`SELECT` + accountColumns + accountFrom + `
		WHERE a.account_type = ?`)
	if err := b.db.GetContext(ctx, &acc, query, TypeRoot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("root account: %w", ErrAccountNotFound)
		}
		return nil, fmt.Errorf("query root account: %w", err)
	}
	if err := b.attachChildren(ctx, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Account returns the account with the given guid and its immediate children.
func (b *Book) Account(ctx context.Context, guid string) (*Account, error) {
	var acc Account
	query := b.db.Rebind(`SELECT` + accountColumns + accountFrom + `
		WHERE a.guid = ?`)
	if err := b.db.GetContext(ctx, &acc, query, guid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", guid, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("query account %s: %w", guid, err)
	}
	if err := b.attachChildren(ctx, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Parent resolves the parent of the given account. For children of the
// root it returns the root itself.
func (b *Book) Parent(ctx context.Context, acc *Account) (*Account, error) {
	if acc.ParentGUID == nil {
		return nil, fmt.Errorf("parent of %s: %w", acc.GUID, ErrAccountNotFound)
	}
	return b.Account(ctx, *acc.ParentGUID)
}

func (b *Book) attachChildren(ctx context.Context, acc *Account) error {
	var children []Account
	query := b.db.Rebind(`SELECT` + accountColumns + accountFrom + `
		WHERE a.parent_guid = ? AND a.hidden = 0
		ORDER BY a.code, a.name`)
	if err := b.db.SelectContext(ctx, &children, query, acc.GUID); err != nil {
		return fmt.Errorf("query children of %s: %w", acc.GUID, err)
	}
	acc.Children = children
	return nil
}

// Balance computes the account balance including all descendant accounts,
// expressed with the display sign convention for the account type.
func (b *Book) Balance(ctx context.Context, acc *Account) (decimal.Decimal, error) {
	query := b.db.Rebind(`
		WITH RECURSIVE subtree(guid) AS (
			SELECT guid FROM accounts WHERE guid = ?
			UNION ALL
			SELECT a.guid FROM accounts a JOIN subtree st ON a.parent_guid = st.guid
		)
		SELECT s.quantity_num AS value_num, s.quantity_denom AS value_denom
		FROM splits s JOIN subtree st ON s.account_guid = st.guid`)

	var parts []Split
	if err := b.db.SelectContext(ctx, &parts, query, acc.GUID); err != nil {
		return decimal.Zero, fmt.Errorf("query balance of %s: %w", acc.GUID, err)
	}

	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(ratio(p.ValueNum, p.ValueDenom))
	}
	if NaturalSign(acc.Type) < 0 {
		total = total.Neg()
	}
	return total, nil
}
