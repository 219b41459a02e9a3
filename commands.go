package main

import (
	"context"
	"fmt"
	"time"

	"vault-wallet-tui/coordinator"
	"vault-wallet-tui/rpc"
	"vault-wallet-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// connectRPC establishes an RPC connection to the Ethereum node
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		return rpcConnectedMsg{result: rpc.Connect(url)}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// loadAccountDetails fetches the wallet balance of the connected account
func loadAccountDetails(client *rpc.Client, addr common.Address) tea.Cmd {
	return func() tea.Msg {
		return accountDetailsMsg{d: rpc.LoadAccountDetails(client, addr)}
	}
}

// runAction runs one coordinator action off the UI loop
func runAction(c *coordinator.Coordinator, kind coordinator.ActionKind, amount string) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		var res coordinator.Result
		switch kind {
		case coordinator.ActionDeposit:
			res = c.Deposit(ctx, amount)
		case coordinator.ActionWithdraw:
			res = c.Withdraw(ctx, amount)
		case coordinator.ActionBalance:
			res = c.FetchBalance(ctx)
		default:
			res = c.Connect(ctx)
		}
		return actionDoneMsg{result: res}
	}
}

// waitForState blocks until the coordinator signals a change
func waitForState(c *coordinator.Coordinator, signal <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-signal
		return stateChangedMsg{state: c.Snapshot()}
	}
}

// waitForAccessRequest blocks until the wallet asks for account access
func waitForAccessRequest(requests <-chan accessRequest) tea.Cmd {
	return func() tea.Msg {
		return accessRequestMsg{req: <-requests}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err == nil {
			return clipboardCopiedMsg{}
		}
		return nil
	}
}

// clearClipboardMsg waits 2 seconds then sends a message to clear clipboard feedback
func clearClipboardMsg() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearClipboardFeedbackMsg{}
	})
}

// -------------------- ACCESS APPROVAL BRIDGE --------------------
// The wallet asks for approval from a coordinator goroutine; the prompt is
// answered from the UI loop.

type accessReply struct {
	grant wallet.Grant
	err   error
}

type accessRequest struct {
	accounts []common.Address
	reply    chan accessReply
}

type approvalBridge struct {
	requests chan accessRequest
}

func newApprovalBridge() *approvalBridge {
	return &approvalBridge{requests: make(chan accessRequest)}
}

// Approve implements wallet.Approver.
func (b *approvalBridge) Approve(ctx context.Context, accounts []common.Address) (wallet.Grant, error) {
	req := accessRequest{accounts: accounts, reply: make(chan accessReply, 1)}
	select {
	case b.requests <- req:
	case <-ctx.Done():
		return wallet.Grant{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r.grant, r.err
	case <-ctx.Done():
		return wallet.Grant{}, ctx.Err()
	}
}

// -------------------- MODEL HELPER METHODS --------------------

// addLog adds a log entry with timestamp and type
func (m *model) addLog(logType, message string) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}
	m.logViewport.SetContent(m.logBuffer.String())
	// Scroll to bottom to show latest entries
	m.logViewport.GotoBottom()
}

// startAction validates the in-flight state and dispatches an action
func (m *model) startAction(kind coordinator.ActionKind) tea.Cmd {
	if m.coord == nil {
		m.addLog("warning", "Node connection not ready yet")
		return nil
	}
	if m.state.Busy(kind) {
		return nil
	}
	amount := ""
	switch kind {
	case coordinator.ActionDeposit, coordinator.ActionWithdraw:
		amount = m.amount.Value()
		m.addLog("info", fmt.Sprintf("Submitting %s of `%s` ETH", kind, amount))
	}
	return runAction(m.coord, kind, amount)
}

// answerAccessRequest replies to the pending access prompt
func (m *model) answerAccessRequest(grant wallet.Grant, err error) {
	if m.accessReq == nil {
		return
	}
	m.accessReq.reply <- accessReply{grant: grant, err: err}
	m.accessReq = nil
	m.accessForm = nil
}
