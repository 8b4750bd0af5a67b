// Package views renders ledger data into message text and inline
// keyboards. Rendering is pure: callers fetch, views format.
package views

// Callback uniques shared between the rendered keyboards and the
// handlers that consume them.
const (
	CBAccount        = "acc"
	CBJournal        = "jrn"
	CBNewTransfer    = "newxfr"
	CBTransferPick   = "xfr"
	CBTransferSelect = "xfrsel"
	CBTransferOK     = "xfrok"
	CBTransferCancel = "xfrcancel"
)

// RootRef is the payload value that addresses the root account without
// exposing its guid.
const RootRef = "root"

// PayloadSep separates fields inside a callback payload. Account guids
// are 32 lowercase hex characters and never contain it.
const PayloadSep = ":"
