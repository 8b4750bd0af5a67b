package book

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type journalRow struct {
	TxGUID      string `db:"tx_guid"`
	PostDate    string `db:"post_date"`
	Description string `db:"description"`
	ValueNum    int64  `db:"value_num"`
	ValueDenom  int64  `db:"value_denom"`
}

type legRow struct {
	TxGUID      string `db:"tx_guid"`
	AccountName string `db:"name"`
	ValueNum    int64  `db:"value_num"`
	ValueDenom  int64  `db:"value_denom"`
}

// Journal returns one page of the account's transactions, newest first,
// together with the total number of entries. Pages are zero-based.
func (b *Book) Journal(ctx context.Context, acc *Account, page, size int) ([]JournalEntry, int, error) {
	if size <= 0 {
		return nil, 0, fmt.Errorf("journal of %s: page size %d", acc.GUID, size)
	}
	if page < 0 {
		page = 0
	}

	var total int
	countQuery := b.db.Rebind(`SELECT COUNT(*) FROM splits WHERE account_guid = ?`)
	if err := b.db.GetContext(ctx, &total, countQuery, acc.GUID); err != nil {
		return nil, 0, fmt.Errorf("count journal of %s: %w", acc.GUID, err)
	}

	query := b.db.Rebind(`
		SELECT s.tx_guid, t.post_date, t.description, s.value_num, s.value_denom
		FROM splits s
		JOIN transactions t ON t.guid = s.tx_guid
		WHERE s.account_guid = ?
		ORDER BY t.post_date DESC, t.enter_date DESC, s.guid
		LIMIT ? OFFSET ?`)

	var rows []journalRow
	if err := b.db.SelectContext(ctx, &rows, query, acc.GUID, size, page*size); err != nil {
		return nil, 0, fmt.Errorf("query journal of %s: %w", acc.GUID, err)
	}
	if len(rows) == 0 {
		return nil, total, nil
	}

	sign := NaturalSign(acc.Type)
	entries := make([]JournalEntry, 0, len(rows))
	byTx := make(map[string][]int, len(rows))
	txGUIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		amount := ratio(row.ValueNum, row.ValueDenom)
		if sign < 0 {
			amount = amount.Neg()
		}
		entries = append(entries, JournalEntry{
			TxGUID:      row.TxGUID,
			PostDate:    row.PostDate,
			Description: row.Description,
			Amount:      amount,
		})
		if _, seen := byTx[row.TxGUID]; !seen {
			txGUIDs = append(txGUIDs, row.TxGUID)
		}
		byTx[row.TxGUID] = append(byTx[row.TxGUID], len(entries)-1)
	}

	legs, err := b.counterpartLegs(ctx, txGUIDs, acc.GUID)
	if err != nil {
		return nil, 0, err
	}
	for _, leg := range legs {
		for _, idx := range byTx[leg.TxGUID] {
			entries[idx].Siblings = append(entries[idx].Siblings, JournalLeg{
				AccountName: leg.AccountName,
				Amount:      ratio(leg.ValueNum, leg.ValueDenom),
			})
		}
	}

	return entries, total, nil
}

func (b *Book) counterpartLegs(ctx context.Context, txGUIDs []string, accountGUID string) ([]legRow, error) {
	query, args, err := sqlx.In(`
		SELECT s.tx_guid, a.name, s.value_num, s.value_denom
		FROM splits s
		JOIN accounts a ON a.guid = s.account_guid
		WHERE s.tx_guid IN (?) AND s.account_guid <> ?
		ORDER BY s.tx_guid, s.guid`, txGUIDs, accountGUID)
	if err != nil {
		return nil, fmt.Errorf("build counterpart query: %w", err)
	}

	var legs []legRow
	if err := b.db.SelectContext(ctx, &legs, b.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query counterpart legs: %w", err)
	}
	return legs, nil
}
