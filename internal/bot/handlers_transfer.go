package bot

import (
	"errors"

	"github.com/mkruglov/bookbot/core/telegram/callbacks"
	"github.com/mkruglov/bookbot/core/telegram/helpers"
	"github.com/mkruglov/bookbot/internal/book"
	"github.com/mkruglov/bookbot/internal/pending"
	"github.com/mkruglov/bookbot/internal/transfer"
	"github.com/mkruglov/bookbot/internal/views"

	tele "gopkg.in/telebot.v4"
)

func messageKey(c tele.Context) (pending.Key, bool) {
	if c.Chat() == nil || c.Message() == nil {
		return pending.Key{}, false
	}
	return pending.Key{ChatID: c.Chat().ID, MessageID: c.Message().ID}, true
}

// callbackNewTransfer opens the destination picker for a transfer out of
// the tapped account.
func (a *App) callbackNewTransfer(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	srcGUID, err := parseAccountRef(callbacks.CallbackPayload(c))
	if err != nil || srcGUID == views.RootRef {
		return a.replyError(c, ErrBadPayload)
	}

	src, err := a.flow.Offer(ctx, srcGUID)
	if err != nil {
		return a.replyError(c, err)
	}

	root, err := a.books.Open().Root(ctx)
	if err != nil {
		return a.replyError(c, err)
	}

	text, markup := views.DestinationPicker(a.tr, views.PickerData{
		SrcGUID: src.GUID,
		SrcName: src.Name,
		Node:    root,
	})
	return c.Edit(text, markup)
}

// callbackTransferPick descends into the tapped account. Postable nodes
// get a select button from the view; choosing one goes through
// callbackTransferSelect.
func (a *App) callbackTransferPick(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	srcGUID, dstRef, err := parseTransferPair(callbacks.CallbackPayload(c))
	if err != nil {
		return a.replyError(c, err)
	}

	b := a.books.Open()
	src, err := b.Account(ctx, srcGUID)
	if err != nil {
		return a.replyError(c, err)
	}

	var node *book.Account
	if dstRef == views.RootRef {
		node, err = b.Root(ctx)
	} else {
		node, err = b.Account(ctx, dstRef)
	}
	if err != nil {
		return a.replyError(c, err)
	}

	parentRef := ""
	if !node.IsRoot() {
		parent, err := b.Parent(ctx, node)
		if err != nil {
			return a.replyError(c, err)
		}
		if parent.IsRoot() {
			parentRef = views.RootRef
		} else {
			parentRef = parent.GUID
		}
	}
	text, markup := views.DestinationPicker(a.tr, views.PickerData{
		SrcGUID:   src.GUID,
		SrcName:   src.Name,
		Node:      node,
		ParentRef: parentRef,
	})
	return c.Edit(text, markup)
}

// callbackTransferSelect stages the chosen pair under the current
// message and asks for confirmation.
func (a *App) callbackTransferSelect(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	srcGUID, dstRef, err := parseTransferPair(callbacks.CallbackPayload(c))
	if err != nil || dstRef == views.RootRef {
		return a.replyError(c, ErrBadPayload)
	}

	b := a.books.Open()
	src, err := b.Account(ctx, srcGUID)
	if err != nil {
		return a.replyError(c, err)
	}
	dst, err := b.Account(ctx, dstRef)
	if err != nil {
		return a.replyError(c, err)
	}
	if !dst.Postable() {
		return a.replyError(c, book.ErrNotPostable)
	}

	key, ok := messageKey(c)
	if !ok {
		return a.replyError(c, ErrBadPayload)
	}
	a.flow.Stage(key, src.GUID, dst.GUID)

	text, markup := views.ConfirmTransfer(a.tr, src, dst)
	return c.Edit(text, markup)
}

// callbackTransferOK consumes the staged pair and starts the description
// step of the conversation.
func (a *App) callbackTransferOK(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	key, ok := messageKey(c)
	if !ok || c.Sender() == nil {
		return a.replyError(c, ErrBadPayload)
	}

	src, dst, err := a.flow.Confirm(ctx, key, c.Sender().ID)
	if err != nil {
		if errors.Is(err, transfer.ErrFlowExpired) {
			return c.Edit(a.tr.T("flow_expired"))
		}
		return a.replyError(c, err)
	}

	return c.Edit(a.tr.T("ask_description", src.Name, dst.Name))
}

// callbackTransferCancel drops the staged pair and returns to the source
// account menu.
func (a *App) callbackTransferCancel(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	key, ok := messageKey(c)
	if !ok {
		return a.replyError(c, ErrBadPayload)
	}

	srcGUID, found := a.flow.Cancel(key)
	if !found {
		return c.Edit(a.tr.T("flow_expired"))
	}

	text, markup, err := a.renderAccount(ctx, srcGUID)
	if err != nil {
		return a.replyError(c, err)
	}
	return c.Edit(text, markup)
}

// fsmDescription receives the free-text description step.
func (a *App) fsmDescription(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	if err := a.flow.SetDescription(c.Sender().ID, c.Text()); err != nil {
		return c.Send(a.tr.T("flow_expired"))
	}
	return c.Send(a.tr.T("ask_amount"))
}

// fsmAmount receives the amount, books the transfer and shows the result.
func (a *App) fsmAmount(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	if c.Sender() == nil {
		return nil
	}

	res, err := a.flow.SubmitAmount(ctx, c.Sender().ID, c.Text())
	switch {
	case errors.Is(err, transfer.ErrInvalidAmount):
		// The conversation stays in the amount step.
		return c.Send(a.tr.T("invalid_amount"))
	case errors.Is(err, transfer.ErrFlowExpired):
		return c.Send(a.tr.T("flow_expired"))
	case errors.Is(err, book.ErrReadOnly):
		return c.Send(a.tr.T("book_read_only"))
	case err != nil:
		return a.replyError(c, err)
	}

	if err := c.Send(a.tr.T("transfer_done", res.Description, res.Amount.String())); err != nil {
		return err
	}

	text, markup, err := a.renderAccount(ctx, views.RootRef)
	if err != nil {
		return a.replyError(c, err)
	}
	return helpers.SendMenu(c, text, markup)
}
