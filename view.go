package main

import (
	"strings"

	"vault-wallet-tui/coordinator"
	"vault-wallet-tui/helpers"
	"vault-wallet-tui/rpc"
	"vault-wallet-tui/styles"
	"vault-wallet-tui/views/access"
	"vault-wallet-tui/views/details"
	logview "vault-wallet-tui/views/log"
	"vault-wallet-tui/views/vault"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m *model) renderAccessDialog() string {
	msg := helpers.FadeString("This app wants to use an account from your keystore", "#F25D94", "#EDFF82")
	ui := lipgloss.JoinVertical(lipgloss.Left, msg, "", access.Render(m.accessForm))

	// Center the dialog on screen
	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		ui,
	)
}

func (m *model) renderQRDialog() string {
	addr := m.cfg.Contract.Address
	title := titleStyle.Render("Vault contract")
	qr := rpc.GenerateQRCode(addr)
	help := lipgloss.NewStyle().Foreground(cMuted).Render(addr + "\n\n" + styles.Key("q") + " close")

	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		styles.DialogStyle.Background(cPanel).Render(lipgloss.JoinVertical(lipgloss.Center, title, "", qr, help)),
	)
}

func (m *model) globalHeader() string {
	availableWidth := helpers.Max(0, m.w-8) // Account for panel padding

	// Connected account
	var addrDisplay string
	switch m.state.Connection {
	case coordinator.Connected:
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Account: " + helpers.FadeString(helpers.ShortenAddr(m.state.Account.Hex()), "#F25D94", "#EDFF82"))
	case coordinator.Connecting:
		addrDisplay = lipgloss.NewStyle().
			Foreground(cWarn).
			Render("Account: " + m.spin.View() + " connecting")
	default:
		addrDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Account: not connected")
	}

	// RPC Status with green dot
	var statusIcon string
	var statusColor lipgloss.Color
	var statusText string

	if m.rpcURL == "" {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "No RPC"
	} else if m.rpcConnecting {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connecting..."
	} else if !m.rpcConnected {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connection Failed"
	} else {
		statusIcon = "●"
		statusColor = cAccent
		if r, ok := m.cfg.ActiveRPC(); ok && r.URL == m.rpcURL {
			statusText = r.Name
		}
		if statusText == "" {
			statusText = "Connected"
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	// Center title
	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("vault wallet", "#7EE787", "#82CFFD"))

	// Calculate widths
	addrWidth := lipgloss.Width(addrDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)

	totalOtherWidth := addrWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Account | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		leftSpacer := strings.Repeat(" ", helpers.Max(1, leftPadding))
		rightSpacer := strings.Repeat(" ", helpers.Max(1, rightPadding))

		headerLine = addrDisplay + leftSpacer + titleText + rightSpacer + rpcDisplay
	}

	// Add separator line
	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

func (m *model) View() string {
	if m.accessForm != nil {
		return m.renderAccessDialog()
	}
	if m.showQR {
		return m.renderQRDialog()
	}

	headerPanel := panelStyle.Width(helpers.Max(0, m.w-2)).Render(m.globalHeader())

	vaultContent := vault.Render(vault.Params{
		ContractName:    m.cfg.Contract.Name,
		ContractAddress: m.cfg.Contract.Address,
		AmountView:      m.amount.View(),
		Focus:           m.focus,
		State:           m.state,
		SpinnerView:     m.spin.View(),
		Ready:           m.coord != nil,
	})
	if m.coord != nil && m.walletErr != "" {
		vaultContent += "\n\n" + lipgloss.NewStyle().Foreground(cWarn).Render("wallet: "+m.walletErr)
	}
	if m.rpcErr != "" {
		vaultContent += "\n" + lipgloss.NewStyle().Foreground(cWarn).Render("rpc: "+m.rpcErr)
	}

	detailsContent := details.Render(m.state, m.details, m.loadingDetails, m.cfg.ExplorerURL, m.copiedMsg, m.spin.View())

	// Calculate panel widths (split 60/40)
	vaultWidth := helpers.Max(0, (m.w*6)/10-2)
	detailsWidth := helpers.Max(0, (m.w*4)/10-2)

	leftPanel := panelStyle.Width(vaultWidth).Render(vaultContent)
	leftPanelHeight := lipgloss.Height(leftPanel)

	// Set the right panel to match the left panel height
	rightPanel := panelStyle.
		Width(detailsWidth + 1).
		Height(helpers.Max(0, leftPanelHeight-2)).
		Render(detailsContent)

	pageContent := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
	nav := vault.Nav(helpers.Max(0, m.w-2), m.focus)

	sections := []string{headerPanel, pageContent, nav}

	// Render log panel only if enabled
	if m.logEnabled {
		// Ensure viewport height stays in sync with the rendered panel
		m.logViewport.Height = logview.Height(m.h)

		sections = append(sections, logview.Render(m.w, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
