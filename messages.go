package main

import (
	"vault-wallet-tui/coordinator"
	"vault-wallet-tui/rpc"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct{}

// clearClipboardFeedbackMsg clears the "copied" hint
type clearClipboardFeedbackMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	result rpc.ConnectResult
}

// accountDetailsMsg contains the connected account's wallet balance
type accountDetailsMsg struct {
	d rpc.AccountDetails
}

// actionDoneMsg carries the result of a coordinator action
type actionDoneMsg struct {
	result coordinator.Result
}

// stateChangedMsg carries a fresh coordinator snapshot
type stateChangedMsg struct {
	state coordinator.State
}

// accessRequestMsg asks the user to grant account access
type accessRequestMsg struct {
	req accessRequest
}
