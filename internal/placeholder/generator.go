// Package placeholder generates synthetic transaction records. These are demo
// fixtures: the transactions endpoint fabricates them per request and the
// txgen tool seeds the placeholder_transactions table with them.
package placeholder

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"fleet-stats-backend/internal/model"
)

var gpus = []string{"RTX 4090", "RTX 4080", "RTX 3090", "RTX 3060", "A100", "Other"}

var ramChoices = []int{8192, 16384, 20480, 32768, 65536}

var vcpuChoices = []int{4, 8, 16, 32}

// Fixed pools used by the per-request demo endpoint.
var (
	providerPool = []string{
		"0x0B220b82F3eA3B7F6d9A1D8ab58930C064A2b5Bf",
		"0xA1B2c3D4E5F678901234567890abcdef12345678",
		"0xBEEF1234567890abcdef1234567890ABCDEF1234",
	}
	requesterPool = []string{
		"0xD50f254E7E6ABe1527879c2E4E23B9984c783295",
		"0xC0FFEE1234567890abcdef1234567890ABCDEF12",
		"0xDEADBEEF1234567890abcdef1234567890ABCDEF",
	}
	txPool = []string{
		"0xe3f9e48f556dbec85b0031ddbb157893eb4f4bb1564577a7f36ef19834790986",
		"0xabc1234567890abcdef1234567890abcdef1234567890abcdef1234567890ab",
		"0xdef9876543210abcdef1234567890abcdef1234567890abcdef1234567890cd",
	}
)

// RandomTransactions fabricates limit records with timestamps inside
// [start, end], drawn from the fixed wallet/tx pools.
func RandomTransactions(start, end time.Time, limit int) []model.PlaceholderTransaction {
	totalSeconds := int64(end.Sub(start) / time.Second)
	if totalSeconds < 1 {
		totalSeconds = 1
	}

	transactions := make([]model.PlaceholderTransaction, 0, limit)
	for i := 0; i < limit; i++ {
		ts := start.Add(time.Duration(randomInt(totalSeconds+1)) * time.Second).Truncate(time.Second)
		transactions = append(transactions, model.PlaceholderTransaction{
			TS:              ts,
			ProviderWallet:  pick(providerPool),
			RequesterWallet: pick(requesterPool),
			Tx:              pick(txPool),
			GPU:             pick(gpus),
			RAM:             pickInt(ramChoices),
			VCPUs:           pickInt(vcpuChoices),
			Duration:        formatDuration(randomMinutes()),
			InvoicedGLM:     randomAmount(0.5, 10.0),
			InvoicedDollar:  randomAmount(0.1, 5.0),
		})
	}
	return transactions
}

// SeedTransactions builds total records evenly spaced over the trailing
// window, with freshly generated wallet addresses (300 providers, 10
// requesters) and unique tx hashes.
func SeedTransactions(now time.Time, total, windowDays int) []model.PlaceholderTransaction {
	endDt := now
	startDt := endDt.AddDate(0, 0, -windowDays)

	providers := make([]string, 300)
	for i := range providers {
		providers[i] = randomEthAddress()
	}
	requesters := make([]string, 10)
	for i := range requesters {
		requesters[i] = randomEthAddress()
	}

	windowSeconds := int64(windowDays) * 24 * 3600
	transactions := make([]model.PlaceholderTransaction, 0, total)
	for i := 0; i < total; i++ {
		ts := startDt.Add(time.Duration(int64(i)*windowSeconds/int64(total)) * time.Second).Truncate(time.Second)
		transactions = append(transactions, model.PlaceholderTransaction{
			TS:              ts,
			ProviderWallet:  providers[randomInt(int64(len(providers)))],
			RequesterWallet: requesters[randomInt(int64(len(requesters)))],
			Tx:              randomTxHash(),
			GPU:             pick(gpus),
			RAM:             pickInt(ramChoices),
			VCPUs:           pickInt(vcpuChoices),
			Duration:        formatDuration(randomMinutes()),
			InvoicedGLM:     randomAmount(0.5, 10.0),
			InvoicedDollar:  randomAmount(0.1, 5.0),
		})
	}
	return transactions
}

func randomEthAddress() string { return "0x" + randomHex(20) }

func randomTxHash() string { return "0x" + randomHex(32) }

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure is unrecoverable
	}
	return hex.EncodeToString(b)
}

func randomInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		panic(err)
	}
	return v.Int64()
}

// randomMinutes picks a session duration between 5 and 120 minutes.
func randomMinutes() int {
	return 5 + int(randomInt(116))
}

// formatDuration renders minutes as H:MM:SS, the format the frontend already
// consumes for placeholder rows.
func formatDuration(minutes int) string {
	return fmt.Sprintf("%d:%02d:00", minutes/60, minutes%60)
}

func randomAmount(min, max float64) float64 {
	span := int64((max - min) * 100)
	return min + float64(randomInt(span+1))/100
}

func pick(choices []string) string {
	return choices[randomInt(int64(len(choices)))]
}

func pickInt(choices []int) int {
	return choices[randomInt(int64(len(choices)))]
}
