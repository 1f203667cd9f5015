package tui

import "time"

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateConsole
)

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	welcome *Welcome
	console *ConsoleModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the console state
type EnterConsoleMsg struct{}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
	Available   bool
}

// sent with the caller's current allowance
type StatusMsg struct {
	status *statusPayload
}

// sent with one page of ledger history
type HistoryMsg struct {
	entries []historyEntry
	total   int
}

// sent with the outcome of a daily bonus claim
type BonusMsg struct {
	decision *decisionPayload
}

// sent when an API call fails
type APIErrorMsg struct {
	command string
	err     error
}

// REST API payloads mirrored from the server

type statusPayload struct {
	Type      string    `json:"type"`
	Credits   int       `json:"credits,omitempty"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

type decisionPayload struct {
	Allowed   bool      `json:"allowed"`
	Reason    string    `json:"reason,omitempty"`
	Cost      int       `json:"cost"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

type historyEntry struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Amount       int       `json:"amount"`
	BalanceAfter *int      `json:"balance_after,omitempty"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}
