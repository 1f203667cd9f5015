package tui

import (
	"fmt"
	"strings"
)

// formats the allowance view as markdown
func formatStatus(status *statusPayload) string {
	if status == nil {
		return "no status returned"
	}

	var b strings.Builder

	b.WriteString("# credit status\n\n")

	if status.Type == "authenticated" {
		b.WriteString(fmt.Sprintf("- **account credits:** %d\n", status.Credits))

		if status.Remaining < 0 {
			b.WriteString("- **limit:** none (exempt)\n")
		}
	} else {
		b.WriteString(fmt.Sprintf("- **free attempts left today:** %d\n", status.Remaining))
		b.WriteString(fmt.Sprintf("- **resets:** %s\n", status.ResetAt.Format("Mon 15:04 MST")))
	}

	return b.String()
}

// formats one history page as a markdown table
func formatHistory(entries []historyEntry, total int) string {
	if len(entries) == 0 {
		return "# credit history\n\nno entries yet"
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("# credit history (%d of %d entries)\n\n", len(entries), total))
	b.WriteString("| when | kind | amount | balance | reason |\n")
	b.WriteString("|------|------|--------|---------|--------|\n")

	for _, e := range entries {
		balance := "-"
		if e.BalanceAfter != nil {
			balance = fmt.Sprintf("%d", *e.BalanceAfter)
		}

		b.WriteString(fmt.Sprintf("| %s | %s | %+d | %s | %s |\n",
			e.CreatedAt.Format("01-02 15:04"),
			e.Kind,
			e.Amount,
			balance,
			e.Reason,
		))
	}

	return b.String()
}

// formats a bonus claim outcome as markdown
func formatBonus(decision *decisionPayload) string {
	if decision == nil {
		return "no decision returned"
	}

	var b strings.Builder

	b.WriteString("# daily bonus\n\n")

	if decision.Allowed {
		b.WriteString(fmt.Sprintf("granted **+%d credits**, balance is now **%d**\n", -decision.Cost, decision.Remaining))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("- **denied:** %s\n", decision.Reason))
	b.WriteString(fmt.Sprintf("- **next claim:** %s\n", decision.ResetAt.Format("Mon 15:04 MST")))
	b.WriteString(fmt.Sprintf("- **balance:** %d\n", decision.Remaining))

	return b.String()
}
