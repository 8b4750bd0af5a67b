// Package transfer drives the multi-step conversation that books a
// two-leg transaction: pick the source account, confirm the destination,
// describe the entry, enter the amount, commit.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mkruglov/bookbot/core/logger"
	"github.com/mkruglov/bookbot/core/telegram/state"
	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/pending"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Conversation states driven by free-text input.
const (
	StateDescription state.State = "transfer_description"
	StateAmount      state.State = "transfer_amount"
)

// Temp-data keys under the user session.
const (
	tempSrc  = "transfer_src"
	tempDst  = "transfer_dst"
	tempDesc = "transfer_desc"
)

var (
	// ErrInvalidAmount marks input that does not parse as a whole amount.
	// The caller re-prompts and the conversation stays in the amount step.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrFlowExpired is returned when the confirmation or session data
	// backing a step is gone.
	ErrFlowExpired = errors.New("transfer flow expired")
)

// Flow wires the pending store, the session manager and the ledger into
// one controller. It carries no Telegram types so the steps can be
// exercised directly.
type Flow struct {
	books   *book.Opener
	pending *pending.Store
	states  state.Manager
}

func NewFlow(books *book.Opener, pendingStore *pending.Store, states state.Manager) *Flow {
	return &Flow{books: books, pending: pendingStore, states: states}
}

// Offer validates that src can take postings and returns it so the caller
// can render the destination-confirmation keyboard.
func (f *Flow) Offer(ctx context.Context, srcGUID string) (*book.Account, error) {
	src, err := f.books.Open().Account(ctx, srcGUID)
	if err != nil {
		return nil, err
	}
	if !src.Postable() {
		return nil, fmt.Errorf("offer from %s: %w", src.Name, book.ErrNotPostable)
	}
	return src, nil
}

// Stage records the proposed pair under the confirmation message so a
// later tap on that message can resolve it.
func (f *Flow) Stage(key pending.Key, srcGUID, dstGUID string) {
	f.pending.Begin(key, pending.Transfer{SrcGUID: srcGUID, DstGUID: dstGUID})
}

// Confirm consumes the staged pair, validates the destination and moves
// the user into the description step.
func (f *Flow) Confirm(ctx context.Context, key pending.Key, userID int64) (src, dst *book.Account, err error) {
	tr, err := f.pending.Take(key)
	if err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			return nil, nil, ErrFlowExpired
		}
		return nil, nil, err
	}

	b := f.books.Open()
	src, err = b.Account(ctx, tr.SrcGUID)
	if err != nil {
		return nil, nil, err
	}
	dst, err = b.Account(ctx, tr.DstGUID)
	if err != nil {
		return nil, nil, err
	}
	if !dst.Postable() {
		return nil, nil, fmt.Errorf("confirm to %s: %w", dst.Name, book.ErrNotPostable)
	}

	f.states.SetTemp(userID, tempSrc, tr.SrcGUID)
	f.states.SetTemp(userID, tempDst, tr.DstGUID)
	f.states.SetState(userID, StateDescription)

	logger.SVCTransfer.Info("transfer.flow",
		slog.String("event", "confirmed"),
		slog.Int64("user_id", userID),
		slog.String("src_guid", tr.SrcGUID),
		slog.String("dst_guid", tr.DstGUID),
	)
	return src, dst, nil
}

// Cancel drops the staged pair attached to the message. An already-gone
// entry is not an error. Returns the source guid to navigate back to, if
// anything was staged.
func (f *Flow) Cancel(key pending.Key) (srcGUID string, ok bool) {
	tr, err := f.pending.Take(key)
	if err != nil {
		return "", false
	}
	return tr.SrcGUID, true
}

// Reset abandons an in-flight conversation for the user.
func (f *Flow) Reset(userID int64) {
	f.states.Clear(userID)
}

// SetDescription stores the text verbatim, empty included, and advances
// to the amount step.
func (f *Flow) SetDescription(userID int64, text string) error {
	if f.states.GetState(userID) != StateDescription {
		return ErrFlowExpired
	}
	f.states.SetTemp(userID, tempDesc, text)
	f.states.SetState(userID, StateAmount)
	return nil
}

// Result describes a committed transfer.
type Result struct {
	TxGUID      string
	SrcGUID     string
	DstGUID     string
	Description string
	Amount      decimal.Decimal
}

// SubmitAmount parses the amount, books the transaction and ends the
// conversation. On ErrInvalidAmount the session state is left untouched
// so the user can retry.
func (f *Flow) SubmitAmount(ctx context.Context, userID int64, text string) (*Result, error) {
	if f.states.GetState(userID) != StateAmount {
		return nil, ErrFlowExpired
	}

	// Negative values book a reversed transfer; only zero is meaningless.
	units, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || units == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	amount := decimal.NewFromInt(units)

	srcGUID, okSrc := f.states.GetTempString(userID, tempSrc)
	dstGUID, okDst := f.states.GetTempString(userID, tempDst)
	desc, _ := f.states.GetTempString(userID, tempDesc)
	if !okSrc || !okDst {
		f.states.Clear(userID)
		return nil, ErrFlowExpired
	}

	b, err := f.books.OpenWritable()
	if err != nil {
		f.states.Clear(userID)
		return nil, err
	}
	txGUID, err := b.Transfer(ctx, srcGUID, dstGUID, desc, amount)
	if err != nil {
		f.states.Clear(userID)
		return nil, err
	}
	f.states.Clear(userID)

	logger.SVCTransfer.Info("transfer.flow",
		slog.String("event", "committed"),
		slog.Int64("user_id", userID),
		slog.String("tx_guid", txGUID),
		slog.String("src_guid", srcGUID),
		slog.String("dst_guid", dstGUID),
		slog.String("amount", amount.String()),
	)
	return &Result{
		TxGUID:      txGUID,
		SrcGUID:     srcGUID,
		DstGUID:     dstGUID,
		Description: desc,
		Amount:      amount,
	}, nil
}
