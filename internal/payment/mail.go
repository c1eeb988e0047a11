// AngelaMos | 2026
// mail.go

package payment

import (
	"fmt"
	"strings"

	"github.com/angelamos/tecai-kids/internal/notify"
	"github.com/angelamos/tecai-kids/internal/subscription"
	"github.com/angelamos/tecai-kids/internal/user"
)

func bankInstructionsMail(u *user.User, d BankDetails) notify.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nThank you for choosing a subscription for %s.\n\n", u.Name)
	fmt.Fprintf(&b, "Bank: %s\nAccount name: %s\nAccount number: %s\nBranch: %s\n",
		d.BankName, d.AccountName, d.AccountNumber, d.Branch)
	fmt.Fprintf(&b, "Amount: %s\nReference: %s\n\n", d.Amount, d.Reference)
	for _, line := range d.Instructions {
		b.WriteString("- " + line + "\n")
	}

	return notify.Message{
		To:      u.ParentEmail,
		Subject: "Bank transfer instructions " + d.Reference,
		Text:    b.String(),
	}
}

func receiptMail(u *user.User, t *Transaction, sub *subscription.Subscription) notify.Message {
	text := fmt.Sprintf(
		"Hello,\n\nWe received %s for %s's %s %s subscription.\n"+
			"It is active until %s.\n",
		FormatAmount(t.Currency, t.Amount),
		u.Name,
		sub.AgeLevel.Name(),
		sub.Cycle,
		sub.EndDate.Format("2 January 2006"),
	)

	return notify.Message{
		To:      u.ParentEmail,
		Subject: "Subscription activated",
		Text:    text,
	}
}
