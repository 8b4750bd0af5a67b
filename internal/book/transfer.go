package book

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const postDateLayout = "2006-01-02 15:04:05"

// Transfer books a two-split transaction moving amount from src to dst,
// denominated in the source account's commodity. Both accounts must be
// postable and share a commodity. Returns the new transaction guid.
func (b *Book) Transfer(ctx context.Context, srcGUID, dstGUID, description string, amount decimal.Decimal) (string, error) {
	if !b.writable {
		return "", ErrReadOnly
	}

	src, err := b.Account(ctx, srcGUID)
	if err != nil {
		return "", err
	}
	dst, err := b.Account(ctx, dstGUID)
	if err != nil {
		return "", err
	}
	if !src.Postable() {
		return "", fmt.Errorf("source %s: %w", src.Name, ErrNotPostable)
	}
	if !dst.Postable() {
		return "", fmt.Errorf("destination %s: %w", dst.Name, ErrNotPostable)
	}
	if src.Commodity.GUID != dst.Commodity.GUID {
		return "", fmt.Errorf("transfer %s -> %s: commodity mismatch (%s vs %s)",
			src.Name, dst.Name, src.Commodity.Mnemonic, dst.Commodity.Mnemonic)
	}

	fraction := src.Commodity.Fraction
	if fraction <= 0 {
		fraction = 100
	}
	scaled := amount.Mul(decimal.New(fraction, 0))
	if !scaled.IsInteger() {
		return "", fmt.Errorf("amount %s in %s: %w", amount, src.Commodity.Mnemonic, ErrPrecision)
	}
	valueNum := scaled.IntPart()

	now := time.Now().UTC().Format(postDateLayout)
	txGUID := NewGUID()

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	insertTx := tx.Rebind(`
		INSERT INTO transactions (guid, currency_guid, num, post_date, enter_date, description)
		VALUES (?, ?, '', ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insertTx, txGUID, src.Commodity.GUID, now, now, description); err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	insertSplit := tx.Rebind(`
		INSERT INTO splits (guid, tx_guid, account_guid, memo, action, reconcile_state,
			value_num, value_denom, quantity_num, quantity_denom)
		VALUES (?, ?, ?, '', '', 'n', ?, ?, ?, ?)`)
	for _, leg := range []struct {
		account string
		num     int64
	}{
		{src.GUID, -valueNum},
		{dst.GUID, valueNum},
	} {
		if _, err := tx.ExecContext(ctx, insertSplit,
			NewGUID(), txGUID, leg.account, leg.num, fraction, leg.num, fraction); err != nil {
			return "", fmt.Errorf("insert split for %s: %w", leg.account, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transfer: %w", err)
	}
	return txGUID, nil
}
