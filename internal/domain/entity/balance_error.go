package entity

// BalanceError describes a wallet whose balance could not be fetched.
type BalanceError struct {
	WalletAddress string `json:"walletAddress"`
	Message       string `json:"message"`
}
