// Package state provides a lightweight FSM/session manager for Telegram bots.
// It routes the next free-text message from a user to the handler registered
// for that user's current conversation state.
package state
