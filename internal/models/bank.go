package models

import "strings"

// RecognizedBanks is the fixed list of Nigerian banks withdrawals can
// be paid out to. The payout provider rejects anything else, so the
// list is enforced at request time.
var RecognizedBanks = []string{
	"Access Bank",
	"Citibank",
	"Ecobank",
	"Fidelity Bank",
	"First Bank of Nigeria",
	"First City Monument Bank",
	"Globus Bank",
	"Guaranty Trust Bank",
	"Heritage Bank",
	"Jaiz Bank",
	"Keystone Bank",
	"Kuda Bank",
	"Opay",
	"Palmpay",
	"Polaris Bank",
	"Providus Bank",
	"Stanbic IBTC Bank",
	"Standard Chartered Bank",
	"Sterling Bank",
	"Union Bank of Nigeria",
	"United Bank for Africa",
	"Unity Bank",
	"Wema Bank",
	"Zenith Bank",
}

// IsRecognizedBank matches a bank name against the enumerated list,
// ignoring case and surrounding whitespace.
func IsRecognizedBank(name string) bool {
	trimmed := strings.TrimSpace(name)
	for _, bank := range RecognizedBanks {
		if strings.EqualFold(bank, trimmed) {
			return true
		}
	}
	return false
}
