package bank

// Rent parameters, matching the mainnet defaults.
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/rent.rs
const (
	lamportsPerByteYear     = 3480
	exemptionThresholdYears = 2
	accountStorageOverhead  = 128
)

// MinimumBalance returns the minimum lamport balance an account of the given
// data size must hold to be exempt from rent collection.
func MinimumBalance(dataLen int) uint64 {
	return uint64(accountStorageOverhead+dataLen) * lamportsPerByteYear * exemptionThresholdYears
}
