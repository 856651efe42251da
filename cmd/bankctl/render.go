package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/ega-bank/ega-bank-client/internal/domain"
	"github.com/ega-bank/ega-bank-client/internal/usecase/services"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	amountStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func formatEuros(montant decimal.Decimal) string {
	return montant.StringFixed(2) + " €"
}

func renderComptes(comptes []domain.Compte) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Comptes") + "\n")
	if len(comptes) == 0 {
		b.WriteString(mutedStyle.Render("  aucun compte") + "\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-22s %-8s %14s", "NUMÉRO", "TYPE", "SOLDE")) + "\n")
	for _, compte := range comptes {
		b.WriteString(fmt.Sprintf("  %-22s %-8s %s\n",
			compte.NumeroCompte,
			compte.TypeCompte,
			amountStyle.Render(fmt.Sprintf("%14s", formatEuros(compte.Solde)))))
	}
	b.WriteString(fmt.Sprintf("  %-31s %s\n", "Total", amountStyle.Render(fmt.Sprintf("%14s", formatEuros(domain.TotalSolde(comptes))))))
	return b.String()
}

func renderTransactions(transactions []domain.Transaction) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Transactions") + "\n")
	if len(transactions) == 0 {
		b.WriteString(mutedStyle.Render("  aucune transaction") + "\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-17s %-9s %-22s %12s %14s", "DATE", "TYPE", "COMPTE", "MONTANT", "SOLDE APRÈS")) + "\n")
	for _, tx := range transactions {
		montant := formatEuros(tx.Montant)
		if tx.Montant.IsNegative() {
			montant = errorStyle.Render(montant)
		}
		b.WriteString(fmt.Sprintf("  %-17s %-9s %-22s %12s %14s",
			tx.DateTransaction.Format("2006-01-02 15:04"),
			tx.TypeTransaction,
			tx.CompteNumero,
			montant,
			formatEuros(tx.SoldeApres)))
		if tx.Description != "" {
			b.WriteString("  " + mutedStyle.Render(tx.Description))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderDashboard(data domain.DashboardData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tableau de bord") + "\n")
	b.WriteString(fmt.Sprintf("  Clients: %d   Comptes: %d   Transactions: %d   Solde total: %s\n",
		data.ClientsCount,
		data.ComptesCount,
		data.TransactionsCount,
		amountStyle.Render(formatEuros(data.TotalSolde))))
	b.WriteString(mutedStyle.Render("  dernière mise à jour: "+data.LastUpdated.Format("2006-01-02 15:04:05")) + "\n\n")
	b.WriteString(renderComptes(data.Comptes))
	b.WriteString("\n")
	b.WriteString(renderTransactions(limitTransactions(data.Transactions, 10)))
	return b.String()
}

func renderLedger(state domain.LedgerState) string {
	var b strings.Builder
	if state.Client != nil {
		b.WriteString(titleStyle.Render("Bonjour "+state.Client.FullName()) + "\n\n")
	}
	b.WriteString(renderComptes(state.Comptes))
	b.WriteString("\n")
	b.WriteString(renderTransactions(state.RecentTransactions))
	if !state.LastUpdated.IsZero() {
		b.WriteString(mutedStyle.Render("dernière mise à jour: "+state.LastUpdated.Format("2006-01-02 15:04:05")) + "\n")
	}
	return b.String()
}

func renderNotifications(notifications []services.Notification) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Notifications") + "\n")
	if len(notifications) == 0 {
		b.WriteString(mutedStyle.Render("  aucune notification") + "\n")
		return b.String()
	}

	for _, n := range notifications {
		style := mutedStyle
		switch n.Type {
		case services.NotificationSuccess:
			style = successStyle
		case services.NotificationWarning:
			style = warnStyle
		case services.NotificationError:
			style = errorStyle
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			n.Timestamp.Format("2006-01-02 15:04"),
			style.Render(string(n.Type)),
			n.Message))
	}
	return b.String()
}

func limitTransactions(transactions []domain.Transaction, n int) []domain.Transaction {
	if len(transactions) <= n {
		return transactions
	}
	return transactions[:n]
}
