package entity

import "chain_probe/internal/pkg/wei"

// Balance represents the native balance of a wallet on the probed node.
type Balance struct {
	WalletAddress string    `json:"walletAddress" yaml:"walletAddress"`
	Amount        wei.Value `json:"wei" yaml:"wei"`
	Hex           string    `json:"hex" yaml:"hex"`
	DisplayUnit   string    `json:"displayUnit" yaml:"displayUnit"`
	Formatted     string    `json:"formatted" yaml:"formatted"`
	FiatValue     string    `json:"fiatValue,omitempty" yaml:"fiatValue,omitempty"`
	FiatCurrency  string    `json:"fiatCurrency,omitempty" yaml:"fiatCurrency,omitempty"`
}
