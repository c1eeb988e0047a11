// AngelaMos | 2026
// bank.go

package payment

import (
	"fmt"
	"time"

	"github.com/angelamos/tecai-kids/internal/config"
)

// BankReference is the deposit reference a parent quotes on the slip.
func BankReference(now time.Time, userID string) string {
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("TK_%s_%s", now.Format("20060102150405"), prefix)
}

type BankDetails struct {
	BankName      string   `json:"bank_name"`
	AccountName   string   `json:"account_name"`
	AccountNumber string   `json:"account_number"`
	Branch        string   `json:"branch"`
	Reference     string   `json:"reference"`
	Amount        string   `json:"amount"`
	Instructions  []string `json:"instructions"`
}

func bankDetails(cfg config.BankConfig, reference string, amount int64, currency string) BankDetails {
	return BankDetails{
		BankName:      cfg.BankName,
		AccountName:   cfg.AccountName,
		AccountNumber: cfg.AccountNumber,
		Branch:        cfg.Branch,
		Reference:     reference,
		Amount:        FormatAmount(currency, amount),
		Instructions: []string{
			"Please use reference number: " + reference,
			"Include your name and phone number in the deposit slip",
			"Send deposit slip photo to " + cfg.ContactEmail,
			"Payment will be verified within 24 hours",
		},
	}
}

// FormatAmount renders whole units with thousands separators, e.g.
// "LKR 4,500.00".
func FormatAmount(currency string, amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}

	return fmt.Sprintf("%s %s%s.00", currency, sign, out)
}
