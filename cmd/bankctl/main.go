// bankctl drives the EGA Bank client core from the command line: auth,
// dashboard, account management, and transaction operations, either
// against the real backend or the local demo ledger.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// CLI is the top-level command structure for bankctl.
type CLI struct {
	Config string `help:"Path to a YAML config file." type:"path" short:"c"`

	Login         LoginCmd         `cmd:"" help:"Log in and store the session."`
	Register      RegisterCmd      `cmd:"" help:"Register a new user and log in."`
	Logout        LogoutCmd        `cmd:"" help:"Log out and clear local caches."`
	Dashboard     DashboardCmd     `cmd:"" help:"Show the aggregate dashboard."`
	Accounts      AccountsCmd      `cmd:"" help:"List or create accounts."`
	Deposit       DepositCmd       `cmd:"" help:"Deposit money into an account."`
	Withdraw      WithdrawCmd      `cmd:"" help:"Withdraw money from an account."`
	Transfer      TransferCmd      `cmd:"" help:"Transfer money between accounts."`
	Transactions  TransactionsCmd  `cmd:"" help:"Show the transaction log."`
	Statement     StatementCmd     `cmd:"" help:"Export an account statement."`
	Notifications NotificationsCmd `cmd:"" help:"Show or clear notifications."`
	Watch         WatchCmd         `cmd:"" help:"Poll the dashboard and print updates as they land."`
	Reset         ResetCmd         `cmd:"" help:"Wipe all locally stored demo data."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("bankctl"),
		kong.Description("EGA Bank client: dashboard cache and local demo ledger."),
		kong.UsageOnError(),
	)

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	app, err := newApp(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	if err := kctx.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
