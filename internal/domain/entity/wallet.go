package entity

// Wallet is an address whose balance is tracked.
type Wallet struct {
	Address string `json:"address" yaml:"address"`
}
