package validation

import "ajo/internal/models"

// BankDetails validates a withdrawal destination account. Account
// numbers are NUBAN, always 10 digits; the bank must come from the
// recognized list the payout provider supports.
func (v *Validator) BankDetails(bank models.BankDetails) {
	v.MinLength("account_name", bank.AccountName, 3)
	v.Digits("account_number", bank.AccountNumber, 10)
	v.Check(models.IsRecognizedBank(bank.BankName), "bank_name", "is not a recognized bank")
}
