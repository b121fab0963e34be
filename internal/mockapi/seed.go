package mockapi

import (
	"fmt"
	"math"
	"time"
)

// Record is a transaction held by the mock.
type Record struct {
	ID                  string
	NameOrAlias         string
	RecipientType       string
	DepositType         string
	DepositRail         string
	CreatedOn           time.Time
	SourceAmount        float64
	SourceCurrency      string
	DestinationAmount   float64
	DestinationCurrency string
	FxRate              float64
	Status              string
	DepositID           string
	SentOrReceived      string
	Mode                string
}

var (
	seedNames = []struct {
		name     string
		business bool
	}{
		{"Acme Ltd", true},
		{"Jane Cooper", false},
		{"Globex", true},
		{"Wade Warren", false},
		{"Initech", true},
		{"Esther Howard", false},
		{"Umbrella Corp", true},
		{"Cameron Williamson", false},
	}
	seedStatuses     = []string{"COMPLETE", "PENDING", "IN_REVIEW", "INITIATED", "REJECTED"}
	seedModes        = []string{"FIAT_TO_FIAT", "STABLE_COIN_TO_FIAT", "FIAT_TO_STABLE_COIN"}
	seedDepositTypes = []string{"BANK_TRANSFER", "CREDIT_CARD", "CRYPTO_WALLET", "DEBIT_CARD", "ENDL_ACCOUNT", "CRYPTO_MANUAL_WALLET"}
	seedRails        = []string{"SWIFT", "SEPA", "ACH", "ETH", "TRON"}
	seedSources      = []string{"USD", "EUR", "USDC", "GBP"}
	seedTargets      = []string{"EUR", "USD", "INR", "USDT"}
)

// Seed returns n deterministic records, the newest created at now and each next one
// 19 hours older.
func Seed(n int, now time.Time) []Record {
	records := make([]Record, 0, n)
	for i := range n {
		who := seedNames[i%len(seedNames)]
		recipient := "INDIVIDUAL"
		if who.business {
			recipient = "BUSINESS"
		}
		direction := "SENT"
		if i%3 == 2 {
			direction = "RECEIVED"
		}

		amount := 100 + float64((i*7919)%5000) + 0.25*float64(i%4)
		rate := 0.8 + float64(i%10)*0.05

		records = append(records, Record{
			ID:                  fmt.Sprintf("TXN%06d", 1000+i),
			NameOrAlias:         who.name,
			RecipientType:       recipient,
			DepositType:         seedDepositTypes[i%len(seedDepositTypes)],
			DepositRail:         seedRails[i%len(seedRails)],
			CreatedOn:           now.Add(-time.Duration(i) * 19 * time.Hour).UTC().Truncate(time.Second),
			SourceAmount:        amount,
			SourceCurrency:      seedSources[i%len(seedSources)],
			DestinationAmount:   math.Round(amount*rate*100) / 100,
			DestinationCurrency: seedTargets[(i+1)%len(seedTargets)],
			FxRate:              rate,
			Status:              seedStatuses[i%len(seedStatuses)],
			DepositID:           fmt.Sprintf("DEP-%05d", 500+i),
			SentOrReceived:      direction,
			Mode:                seedModes[i%len(seedModes)],
		})
	}
	return records
}
