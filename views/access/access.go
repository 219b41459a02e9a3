package access

import (
	"strings"

	"vault-wallet-tui/helpers"
	"vault-wallet-tui/styles"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
)

// Form field storage (package-level so the form keeps stable pointers)
var (
	TempAccount    string
	TempPassphrase string
	TempAllow      bool
)

// CreateForm creates the account access prompt
func CreateForm(accounts []common.Address, contractAddr string) *huh.Form {
	TempAccount = ""
	TempPassphrase = ""
	TempAllow = false

	var opts []huh.Option[string]
	for _, a := range accounts {
		opts = append(opts, huh.NewOption(a.Hex(), a.Hex()))
	}
	if len(accounts) > 0 {
		TempAccount = accounts[0].Hex()
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Description("Choose the account to connect to "+helpers.ShortenAddr(contractAddr)).
				Options(opts...).
				Value(&TempAccount),

			huh.NewInput().
				Title("Passphrase").
				Description("Unlocks the account for signing").
				EchoMode(huh.EchoModePassword).
				Value(&TempPassphrase),

			huh.NewConfirm().
				Title("Allow this app to use the account?").
				Affirmative("Allow").
				Negative("Reject").
				Value(&TempAllow),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the prompt as a dialog
func Render(form *huh.Form) string {
	title := styles.TitleStyle.Render("Connection Request")
	hint := lipgloss.NewStyle().Foreground(styles.CMuted).Render(strings.Join([]string{
		"Enter confirm", "Esc reject",
	}, " • "))
	return styles.PanelStyle.Render(title + "\n\n" + form.View() + "\n" + hint)
}
