package api

import (
	"bytes"
	"encoding/json"
)

// TransactionStatus is the processing state of a transaction.
type TransactionStatus string

const (
	StatusInitiated TransactionStatus = "INITIATED"
	StatusInReview  TransactionStatus = "IN_REVIEW"
	StatusPending   TransactionStatus = "PENDING"
	StatusComplete  TransactionStatus = "COMPLETE"
	StatusRejected  TransactionStatus = "REJECTED"
)

// TransactionMode is the conversion route of a transaction.
type TransactionMode string

const (
	ModeStableCoinToFiat TransactionMode = "STABLE_COIN_TO_FIAT"
	ModeFiatToStableCoin TransactionMode = "FIAT_TO_STABLE_COIN"
	ModeFiatToFiat       TransactionMode = "FIAT_TO_FIAT"
)

// DepositType is how the sender funded a transaction.
type DepositType string

const (
	DepositCreditCard         DepositType = "CREDIT_CARD"
	DepositDebitCard          DepositType = "DEBIT_CARD"
	DepositBankTransfer       DepositType = "BANK_TRANSFER"
	DepositCryptoWallet       DepositType = "CRYPTO_WALLET"
	DepositCryptoManualWallet DepositType = "CRYPTO_MANUAL_WALLET"
	DepositEndlAccount        DepositType = "ENDL_ACCOUNT"
)

// RecipientType distinguishes people from companies.
type RecipientType string

const (
	RecipientIndividual RecipientType = "INDIVIDUAL"
	RecipientBusiness   RecipientType = "BUSINESS"
)

// Direction tells whether the caller sent or received the funds.
type Direction string

const (
	DirectionSent     Direction = "SENT"
	DirectionReceived Direction = "RECEIVED"
)

// DateRange selects the creation period of listed transactions.
type DateRange string

const (
	RangeAllTime   DateRange = "ALL_TIME"
	RangeYesterday DateRange = "YESTERDAY"
	RangeLast7Days DateRange = "LAST_7_DAYS"
	RangeCustom    DateRange = "CUSTOM"
)

// Text is a value the API sends either as a JSON string or as a number, such as
// amounts, rates and IDs.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = Text(n.String())
	return nil
}
