package vault

import (
	"strings"

	"vault-wallet-tui/coordinator"
	"vault-wallet-tui/helpers"
	"vault-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Focus targets in the vault panel, in tab order.
const (
	FocusAmount = iota
	FocusDeposit
	FocusWithdraw
	FocusBalance
	FocusConnect
	focusCount
)

// NextFocus cycles through the focus targets.
func NextFocus(f, delta int) int {
	return ((f+delta)%focusCount + focusCount) % focusCount
}

// FocusAction maps a button focus to its action.
func FocusAction(f int) (coordinator.ActionKind, bool) {
	switch f {
	case FocusDeposit:
		return coordinator.ActionDeposit, true
	case FocusWithdraw:
		return coordinator.ActionWithdraw, true
	case FocusBalance:
		return coordinator.ActionBalance, true
	case FocusConnect:
		return coordinator.ActionConnect, true
	}
	return 0, false
}

// Params bundles what the vault panel shows.
type Params struct {
	ContractName    string
	ContractAddress string
	AmountView      string
	Focus           int
	State           coordinator.State
	SpinnerView     string
	Ready           bool
}

// Render renders the contract interaction panel
func Render(p Params) string {
	name := p.ContractName
	if name == "" {
		name = "Vault"
	}
	h := styles.TitleStyle.Render(name) + "  " +
		lipgloss.NewStyle().Foreground(styles.CMuted).Render(helpers.ShortenAddr(p.ContractAddress))

	lines := []string{h, ""}

	if !p.Ready {
		lines = append(lines, p.SpinnerView+" connecting to node…")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, p.AmountView, "")

	buttons := []struct {
		label string
		focus int
		kind  coordinator.ActionKind
	}{
		{"Deposit", FocusDeposit, coordinator.ActionDeposit},
		{"Withdraw", FocusWithdraw, coordinator.ActionWithdraw},
		{"Balance", FocusBalance, coordinator.ActionBalance},
		{"Connect", FocusConnect, coordinator.ActionConnect},
	}
	var rendered []string
	for _, b := range buttons {
		switch {
		case p.State.Busy(b.kind):
			rendered = append(rendered, styles.BusyButtonStyle.Render(b.label+"…"))
		case p.Focus == b.focus:
			rendered = append(rendered, styles.ActiveButtonStyle.Render(b.label))
		default:
			rendered = append(rendered, styles.ButtonStyle.Render(b.label))
		}
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered...), "")

	if busy := inFlight(p.State); busy != "" {
		lines = append(lines, p.SpinnerView+" "+busy)
	}

	if p.State.Balance != "" {
		bal := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("Retrieved Balance: ") +
			lipgloss.NewStyle().Foreground(styles.CText).Render(p.State.Balance+" ETH") +
			lipgloss.NewStyle().Foreground(styles.CMuted).Render("  ("+helpers.LoadedAt(p.State.BalanceAt, false)+")")
		lines = append(lines, bal)
	}

	if st := Status(p.State.Status); st != "" {
		lines = append(lines, "", st)
	}

	return strings.Join(lines, "\n")
}

// Status renders the last action result, if any.
func Status(res *coordinator.Result) string {
	if res == nil {
		return ""
	}
	if res.OK() {
		line := lipgloss.NewStyle().Foreground(styles.CAccent).Render("✓ " + res.Message)
		if tx := helpers.ShortenHash(res.TxHash); tx != "" {
			line += lipgloss.NewStyle().Foreground(styles.CMuted).Render("  tx " + tx)
		}
		return line
	}
	line := lipgloss.NewStyle().Foreground(styles.CWarn).Bold(true).Render("⚠ " + res.Message)
	if reason := res.Failure.Reason(); reason != "" && res.Failure.Kind != coordinator.ConnectionRejected {
		line += "\n" + lipgloss.NewStyle().Foreground(styles.CMuted).Render(reason)
	}
	return line
}

func inFlight(s coordinator.State) string {
	switch {
	case s.Busy(coordinator.ActionDeposit):
		return "deposit pending confirmation…"
	case s.Busy(coordinator.ActionWithdraw):
		return "withdrawal pending confirmation…"
	case s.Busy(coordinator.ActionBalance):
		return "reading balance…"
	case s.Busy(coordinator.ActionConnect):
		return "waiting for wallet…"
	}
	return ""
}

// Nav returns the navigation bar for the vault view
func Nav(width int, focus int) string {
	var items []string
	if focus == FocusAmount {
		items = []string{
			styles.Key("Enter") + " deposit",
			styles.Key("Tab") + " buttons",
			styles.Key("Esc") + " quit",
		}
	} else {
		items = []string{
			styles.Key("d") + " deposit",
			styles.Key("w") + " withdraw",
			styles.Key("b") + " balance",
			styles.Key("c") + " connect",
			styles.Key("y") + " copy tx",
			styles.Key("q") + " qr",
			styles.Key("r") + " refresh",
			styles.Key("l") + " logger",
			styles.Key("Tab") + " focus",
			styles.Key("Esc") + " quit",
		}
	}
	return styles.NavStyle.Width(width).Render(strings.Join(items, "   "))
}
