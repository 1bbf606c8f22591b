package vaultqueue

// PayoutJob sends one accepted withdrawal over the payout rail.
type PayoutJob struct {
	WithdrawalID string `json:"withdrawal_id"`
	UserID       string `json:"user_id"`
	AmountCents  int64  `json:"amount_cents"`
}

// Kind returns the job type identifier for River
func (PayoutJob) Kind() string { return "vault_payout" }
