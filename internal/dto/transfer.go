package dto

import "github.com/shopspring/decimal"

// TransferRequest moves money to a receiver identified by username.
type TransferRequest struct {
	Receiver string          `json:"receiver" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// TransferByIBANRequest moves money to a receiver identified by IBAN.
type TransferByIBANRequest struct {
	IBAN   string          `json:"iban" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
