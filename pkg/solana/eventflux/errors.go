package eventflux

import "github.com/eventflux-labs/eventflux-server/pkg/solana"

type EventFluxError uint32

const (
	// Bump not found
	ErrBumpNotFound EventFluxError = iota + 0x1770

	// Event already concluded
	ErrEventEnded

	// Tier not found
	ErrTierNotFound

	// Tier sold out
	ErrTierSoldOut

	// Math overflow
	ErrMathOverflow

	// Event has not started
	ErrEventNotStarted

	// Unauthorized verifier
	ErrUnauthorizedVerifier

	// Pass already checked in
	ErrAlreadyCheckedIn

	// Event already settled
	ErrAlreadySettled

	// Event not ended
	ErrEventNotEnded

	// No funds to withdraw
	ErrNothingToWithdraw

	// Invalid metadata
	ErrInvalidMetadata

	// Metadata too long
	ErrMetadataTooLong

	// Invalid event schedule
	ErrInvalidSchedule

	// Invalid tier configuration
	ErrInvalidTierSet

	// Too many tiers supplied
	ErrTooManyTiers

	// Too many verifiers supplied
	ErrTooManyVerifiers

	// Tier label too long
	ErrTierLabelTooLong

	// Unable to create vault treasury
	ErrVaultCreationFailed

	// Cannot harvest yield for events without a strategy
	ErrNoYieldStrategy

	// Harvest amount must be positive
	ErrInvalidHarvestAmount

	// Pass must be checked in before loyalty rewards
	ErrPassNotCheckedIn

	// Loyalty NFT already issued for this pass
	ErrLoyaltyAlreadyIssued
)

func (e EventFluxError) ToCustomError() solana.CustomError {
	return solana.CustomError(e)
}
