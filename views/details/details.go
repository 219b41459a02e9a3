package details

import (
	"fmt"
	"strings"

	"vault-wallet-tui/coordinator"
	"vault-wallet-tui/helpers"
	"vault-wallet-tui/rpc"
	"vault-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Render renders the connected account panel
func Render(state coordinator.State, details rpc.AccountDetails, loading bool, explorerURL string, copiedMsg string, spinnerView string) string {
	h := styles.TitleStyle.Render("Account")

	if state.Connection != coordinator.Connected {
		hint := lipgloss.NewStyle().Foreground(styles.CMuted).Render("Not connected. Press ") + styles.Key("c") +
			lipgloss.NewStyle().Foreground(styles.CMuted).Render(" to request account access.")
		if state.Connection == coordinator.Connecting {
			hint = spinnerView + " waiting for account approval…"
		}
		return h + "\n\n" + hint
	}

	addr := state.Account.Hex()
	addrStyle := lipgloss.NewStyle().Foreground(styles.CMuted).Underline(true)
	sub := addrStyle.Render(addr)
	if explorerURL != "" {
		// OSC 8 hyperlink: \x1b]8;;URL\x1b\\TEXT\x1b]8;;\x1b\\
		link := strings.TrimRight(explorerURL, "/") + "/address/" + addr
		sub = fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", link, addrStyle.Render(addr))
	}
	if copiedMsg != "" {
		sub += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg)
	}

	if loading {
		return h + "\n" + sub + "\n\n" + spinnerView + " fetching wallet balance…"
	}

	if details.ErrMessage != "" {
		msg := lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ " + details.ErrMessage)
		return h + "\n" + sub + "\n\n" + msg
	}

	ethLine := fmt.Sprintf("%s  %s",
		lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("Wallet"),
		lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.FormatETH(details.EthWei)),
	)
	updated := lipgloss.NewStyle().Foreground(styles.CMuted).Render("updated " + helpers.LoadedAt(details.LoadedAt, false))

	return strings.Join([]string{h, sub, "", ethLine, updated}, "\n")
}
