package main

import (
	"fmt"
	"time"

	"vault-wallet-tui/config"
	"vault-wallet-tui/coordinator"
	"vault-wallet-tui/helpers"
	"vault-wallet-tui/views/access"
	"vault-wallet-tui/views/vault"
	"vault-wallet-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- UPDATE --------------------

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The access prompt owns the keyboard while it is open. Other messages
	// still reach the main switch so spinners and state updates keep flowing.
	if m.accessForm != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "ctrl+c":
				m.answerAccessRequest(wallet.Grant{}, wallet.ErrRejected)
				return m, tea.Quit
			case "esc":
				m.addLog("warning", "Account access rejected")
				m.answerAccessRequest(wallet.Grant{}, wallet.ErrRejected)
				return m, nil
			}
		}

		form, cmd := m.accessForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.accessForm = f

			switch m.accessForm.State {
			case huh.StateCompleted:
				if access.TempAllow {
					grant := wallet.Grant{
						Account:    common.HexToAddress(access.TempAccount),
						Passphrase: access.TempPassphrase,
					}
					m.addLog("info", fmt.Sprintf("Account access granted for `%s`", helpers.ShortenAddr(grant.Account.Hex())))
					m.answerAccessRequest(grant, nil)
				} else {
					m.addLog("warning", "Account access rejected")
					m.answerAccessRequest(wallet.Grant{}, wallet.ErrRejected)
				}
				access.TempPassphrase = ""
				return m, cmd
			case huh.StateAborted:
				m.answerAccessRequest(wallet.Grant{}, wallet.ErrRejected)
				return m, cmd
			}
		}
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, nil

	case rpcConnectedMsg:
		m.rpcConnecting = false
		if msg.result.Error != nil {
			// Connection failed
			m.ethClient = nil
			m.rpcConnected = false
			m.rpcErr = msg.result.Error.Error()
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", m.rpcErr))
			m.setupCoordinator(nil)
		} else {
			// Connection successful
			m.ethClient = msg.result.Client
			m.rpcConnected = true
			m.addLog("success", fmt.Sprintf("RPC connected to `%s` (chain %s)", msg.result.Client.URL, msg.result.ChainID))
			m.setupCoordinator(m.ethClient)
		}
		cmds = append(cmds, waitForState(m.coord, m.stateSignal))
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height

		// Only initialize viewport if log is enabled
		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = helpers.Max(0, msg.Width-6)
			if m.logReady {
				m.updateLogViewport()
			}
		}
		if m.accessForm != nil {
			m.accessForm = m.accessForm.WithWidth(helpers.Min(70, helpers.Max(0, msg.Width-10)))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		// Update log spinner too if log is enabled but not ready
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case stateChangedMsg:
		cmds = append(cmds, m.syncState(msg.state), waitForState(m.coord, m.stateSignal))
		return m, tea.Batch(cmds...)

	case actionDoneMsg:
		res := msg.result
		if res.OK() {
			m.addLog("success", res.Message)
			if res.ClearInput {
				m.amount.SetValue("")
			}
			// deposits and withdrawals move the wallet balance too
			if res.Action == coordinator.ActionDeposit || res.Action == coordinator.ActionWithdraw {
				m.detailsFor = common.Address{}
			}
		} else if res.Failure.Kind == coordinator.InFlight {
			m.addLog("debug", res.Failure.Error())
		} else {
			m.addLog("error", res.Failure.Error())
		}
		if m.coord != nil {
			cmds = append(cmds, m.syncState(m.coord.Snapshot()))
		}
		return m, tea.Batch(cmds...)

	case accessRequestMsg:
		cmds = append(cmds, waitForAccessRequest(m.approvals.requests))
		if m.accessReq != nil {
			// one prompt at a time
			msg.req.reply <- accessReply{err: wallet.ErrRejected}
			return m, tea.Batch(cmds...)
		}
		req := msg.req
		m.accessReq = &req
		m.accessForm = access.CreateForm(req.accounts, m.cfg.Contract.Address)
		if m.w > 0 {
			m.accessForm = m.accessForm.WithWidth(helpers.Min(70, helpers.Max(0, m.w-10)))
		}
		m.showQR = false
		m.addLog("info", fmt.Sprintf("Account access requested (%d accounts in keystore)", len(req.accounts)))
		return m, tea.Batch(cmds...)

	case accountDetailsMsg:
		m.loadingDetails = false
		m.details = msg.d
		if m.details.ErrMessage != "" {
			m.addLog("error", fmt.Sprintf("Wallet `%s`: %s", helpers.ShortenAddr(m.details.Address), m.details.ErrMessage))
		} else {
			m.addLog("success", fmt.Sprintf("Loaded details for `%s` - ETH: %s", helpers.ShortenAddr(m.details.Address), helpers.FormatETH(m.details.EthWei)))
		}
		return m, tea.Batch(cmds...)

	case clipboardCopiedMsg:
		m.copiedMsg = "✓ Copied transaction hash to clipboard"
		m.copiedMsgTime = time.Now()
		return m, clearClipboardMsg()

	case clearClipboardFeedbackMsg:
		if time.Since(m.copiedMsgTime) >= 2*time.Second {
			m.copiedMsg = ""
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	// Forward remaining messages (cursor blink) to the amount input
	if m.focus == vault.FocusAmount {
		var cmd tea.Cmd
		m.amount, cmd = m.amount.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses outside the access prompt
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "tab":
		return m.setFocus(vault.NextFocus(m.focus, 1))
	case "shift+tab":
		return m.setFocus(vault.NextFocus(m.focus, -1))
	case "pageup", "pagedown":
		// Allow scrolling in log viewport when enabled
		if m.logEnabled && m.logReady {
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return cmd
		}
		return nil
	}

	if m.focus == vault.FocusAmount {
		switch msg.String() {
		case "enter":
			return m.startAction(coordinator.ActionDeposit)
		case "esc":
			return tea.Quit
		}
		var cmd tea.Cmd
		m.amount, cmd = m.amount.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "esc":
		if m.showQR {
			m.showQR = false
			return nil
		}
		return tea.Quit

	case "left":
		return m.setFocus(helpers.Max(vault.FocusDeposit, m.focus-1))

	case "right":
		return m.setFocus(helpers.Min(vault.FocusConnect, m.focus+1))

	case "enter", " ":
		if kind, ok := vault.FocusAction(m.focus); ok {
			return m.startAction(kind)
		}

	case "d", "D":
		return m.startAction(coordinator.ActionDeposit)

	case "w", "W":
		return m.startAction(coordinator.ActionWithdraw)

	case "b", "B":
		return m.startAction(coordinator.ActionBalance)

	case "c", "C":
		return m.startAction(coordinator.ActionConnect)

	case "y", "Y":
		// Copy the last transaction hash
		if st := m.state.Status; st != nil && st.TxHash != (common.Hash{}) {
			m.addLog("info", "Copied transaction hash to clipboard")
			return copyToClipboard(st.TxHash.Hex())
		}
		m.addLog("warning", "No transaction hash to copy")

	case "q", "Q":
		m.showQR = !m.showQR

	case "r", "R":
		// Refresh the wallet balance of the connected account
		if m.state.Connection == coordinator.Connected && !m.loadingDetails {
			m.loadingDetails = true
			m.addLog("info", fmt.Sprintf("Refreshing details for `%s`", helpers.ShortenAddr(m.state.Account.Hex())))
			return tea.Batch(m.spin.Tick, loadAccountDetails(m.ethClient, m.state.Account))
		}

	case "l", "L":
		return m.toggleLogger()
	}
	return nil
}

// setFocus moves focus between the amount input and the buttons
func (m *model) setFocus(f int) tea.Cmd {
	m.focus = f
	if f == vault.FocusAmount {
		m.amount.Focus()
		return textinput.Blink
	}
	m.amount.Blur()
	return nil
}

// syncState stores a coordinator snapshot and loads the wallet balance
// whenever a new account becomes connected
func (m *model) syncState(s coordinator.State) tea.Cmd {
	prev := m.state.Connection
	m.state = s
	if s.Connection != prev {
		m.addLog("debug", fmt.Sprintf("Wallet %s", s.Connection))
	}
	if s.Connection != coordinator.Connected || s.Account == m.detailsFor {
		return nil
	}
	m.detailsFor = s.Account
	m.loadingDetails = true
	return tea.Batch(m.spin.Tick, loadAccountDetails(m.ethClient, s.Account))
}

// toggleLogger shows or hides the log panel and persists the choice
func (m *model) toggleLogger() tea.Cmd {
	m.logEnabled = !m.logEnabled
	m.cfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}
	if m.logEnabled {
		// Initialize viewport when enabling
		if m.w > 0 {
			m.logViewport.Width = m.w - 6
		}
		m.logReady = false
		return tea.Batch(initLogViewport(), m.logSpinner.Tick)
	}
	// Clear logs when disabling
	m.logBuffer.Reset()
	m.logReady = false
	return nil
}
