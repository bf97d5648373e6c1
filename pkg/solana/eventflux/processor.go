package eventflux

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/eventflux-labs/eventflux-server/pkg/pointer"
	"github.com/eventflux-labs/eventflux-server/pkg/solana"
	"github.com/eventflux-labs/eventflux-server/pkg/solana/bank"
	"github.com/eventflux-labs/eventflux-server/pkg/solana/system"
	"github.com/eventflux-labs/eventflux-server/pkg/solana/token"
	vault_stub "github.com/eventflux-labs/eventflux-server/pkg/solana/vaultstub"
)

// Processor executes event ledger instructions against a bank ledger,
// enforcing the same account derivations, authority checks, and state
// transitions as the deployed program.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) ID() ed25519.PublicKey {
	return PROGRAM_ID
}

func (p *Processor) Execute(ictx *bank.InstructionContext) error {
	switch {
	case bytes.HasPrefix(ictx.Data, createEventInstructionDiscriminator):
		return p.createEvent(ictx)
	case bytes.HasPrefix(ictx.Data, mintPassInstructionDiscriminator):
		return p.mintPass(ictx)
	case IsCheckInInstruction(ictx.Data):
		return p.checkIn(ictx)
	case IsWithdrawTreasuryInstruction(ictx.Data):
		return p.withdrawTreasury(ictx)
	case bytes.HasPrefix(ictx.Data, harvestYieldInstructionDiscriminator):
		return p.harvestYield(ictx)
	case IsIssueLoyaltyNftInstruction(ictx.Data):
		return p.issueLoyaltyNft(ictx)
	default:
		return bank.ErrInvalidInstructionData
	}
}

func (p *Processor) createEvent(ictx *bank.InstructionContext) error {
	if err := ictx.RequireAccounts(6); err != nil {
		return err
	}

	args, err := CreateEventInstructionFromBinary(ictx.Data)
	if err != nil {
		return bank.ErrInvalidInstructionData
	}
	if err := args.Validate(); err != nil {
		return err
	}

	organizerInfo := ictx.Accounts[0]
	eventInfo := ictx.Accounts[1]
	vaultStateInfo := ictx.Accounts[2]
	vaultTreasuryInfo := ictx.Accounts[3]

	if !organizerInfo.IsSigner {
		return bank.ErrMissingSignature
	}

	eventIDBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(eventIDBytes, args.EventID)

	eventAddress, eventBump, err := GetEventAddress(&GetEventAddressArgs{
		Organizer: organizerInfo.Key,
		EventID:   args.EventID,
	})
	if err != nil || !bytes.Equal(eventAddress, eventInfo.Key) {
		return bank.ErrInvalidSeeds
	}

	vaultStateAddress, vaultStateBump, err := GetVaultStateAddress(&GetVaultStateAddressArgs{
		Event: eventInfo.Key,
	})
	if err != nil || !bytes.Equal(vaultStateAddress, vaultStateInfo.Key) {
		return bank.ErrInvalidSeeds
	}

	vaultTreasuryAddress, vaultTreasuryBump, err := GetVaultTreasuryAddress(&GetVaultTreasuryAddressArgs{
		Event: eventInfo.Key,
	})
	if err != nil || !bytes.Equal(vaultTreasuryAddress, vaultTreasuryInfo.Key) {
		return bank.ErrInvalidSeeds
	}

	event := &EventAccount{
		Bump:                eventBump,
		EventID:             args.EventID,
		Organizer:           organizerInfo.Key,
		SettlementTreasury:  args.SettlementTreasury,
		Name:                args.Name,
		Venue:               args.Venue,
		StartTs:             args.StartTs,
		EndTs:               args.EndTs,
		YieldStrategy:       args.YieldStrategy,
		AuthorizedVerifiers: args.AuthorizedVerifiers,
		TotalPasses:         0,
		VaultState:          vaultStateInfo.Key,
		Settled:             false,
	}
	for _, input := range args.Tiers {
		if len(input.Label) > MaxTierLabelLength {
			return ErrTierLabelTooLong.ToCustomError()
		}
		event.Tiers = append(event.Tiers, TierConfig{
			TierID:        input.TierID,
			Label:         input.Label,
			PriceLamports: input.PriceLamports,
			MaxSupply:     input.MaxSupply,
			Sold:          0,
		})
	}

	eventSize := event.Size()
	err = ictx.InvokeSigned(
		system.CreateAccount(
			organizerInfo.Key,
			eventInfo.Key,
			PROGRAM_ID,
			bank.MinimumBalance(eventSize),
			uint64(eventSize),
		),
		[][]byte{eventPrefix, organizerInfo.Key, eventIDBytes, {eventBump}},
	)
	if err != nil {
		return err
	}

	err = ictx.InvokeSigned(
		system.CreateAccount(
			organizerInfo.Key,
			vaultStateInfo.Key,
			PROGRAM_ID,
			bank.MinimumBalance(VaultStateAccountSize),
			VaultStateAccountSize,
		),
		[][]byte{vaultStatePrefix, eventInfo.Key, {vaultStateBump}},
	)
	if err != nil {
		return err
	}

	vaultState := &VaultStateAccount{
		Bump:              vaultStateBump,
		Event:             eventInfo.Key,
		Strategy:          args.YieldStrategy,
		VaultTreasuryBump: vaultTreasuryBump,
	}

	// The treasury holds raw lamports only; it is created empty and rent
	// exempt if some earlier flow hasn't produced it already.
	if !bytes.Equal(vaultTreasuryInfo.Account.Owner, PROGRAM_ID) {
		err = ictx.InvokeSigned(
			system.CreateAccount(
				organizerInfo.Key,
				vaultTreasuryInfo.Key,
				PROGRAM_ID,
				bank.MinimumBalance(0),
				0,
			),
			[][]byte{vaultTreasuryPrefix, eventInfo.Key, {vaultTreasuryBump}},
		)
		if err != nil {
			return ErrVaultCreationFailed.ToCustomError()
		}
	}

	eventInfo.Account.Data = event.Marshal()
	vaultStateInfo.Account.Data = vaultState.Marshal()

	return nil
}

func (p *Processor) mintPass(ictx *bank.InstructionContext) error {
	if err := ictx.RequireAccounts(6); err != nil {
		return err
	}

	args, err := MintPassInstructionFromBinary(ictx.Data)
	if err != nil {
		return bank.ErrInvalidInstructionData
	}

	attendeeInfo := ictx.Accounts[0]
	eventInfo := ictx.Accounts[1]
	vaultStateInfo := ictx.Accounts[2]
	vaultTreasuryInfo := ictx.Accounts[3]
	eventPassInfo := ictx.Accounts[4]

	if !attendeeInfo.IsSigner {
		return bank.ErrMissingSignature
	}

	event, err := p.loadEvent(eventInfo)
	if err != nil {
		return err
	}
	vaultState, err := p.loadVaultState(vaultStateInfo, eventInfo.Key)
	if err != nil {
		return err
	}
	if err := p.checkVaultTreasury(vaultTreasuryInfo, eventInfo.Key, vaultState.VaultTreasuryBump); err != nil {
		return err
	}

	now := ictx.UnixTime()
	if now >= event.EndTs {
		return ErrEventEnded.ToCustomError()
	}

	tier := event.FindTier(args.TierID)
	if tier == nil {
		return ErrTierNotFound.ToCustomError()
	}
	if tier.Sold >= tier.MaxSupply {
		return ErrTierSoldOut.ToCustomError()
	}
	if tier.Sold == math.MaxUint32 {
		return ErrMathOverflow.ToCustomError()
	}
	tier.Sold++

	if event.TotalPasses == math.MaxUint64 {
		return ErrMathOverflow.ToCustomError()
	}
	event.TotalPasses++

	passAddress, passBump, err := GetEventPassAddress(&GetEventPassAddressArgs{
		Event:    eventInfo.Key,
		Attendee: attendeeInfo.Key,
		TierID:   args.TierID,
	})
	if err != nil || !bytes.Equal(passAddress, eventPassInfo.Key) {
		return bank.ErrInvalidSeeds
	}

	err = ictx.InvokeSigned(
		system.CreateAccount(
			attendeeInfo.Key,
			eventPassInfo.Key,
			PROGRAM_ID,
			bank.MinimumBalance(EventPassAccountSize),
			EventPassAccountSize,
		),
		[][]byte{eventPassPrefix, eventInfo.Key, attendeeInfo.Key, {args.TierID}, {passBump}},
	)
	if err != nil {
		return err
	}

	pass := &EventPassAccount{
		Bump:      passBump,
		Event:     eventInfo.Key,
		Owner:     attendeeInfo.Key,
		TierID:    args.TierID,
		PricePaid: tier.PriceLamports,
		MintedAt:  now,
	}

	err = ictx.Invoke(system.Transfer(attendeeInfo.Key, vaultTreasuryInfo.Key, tier.PriceLamports))
	if err != nil {
		return err
	}

	if vaultState.TotalDeposited > math.MaxUint64-tier.PriceLamports {
		return ErrMathOverflow.ToCustomError()
	}
	vaultState.TotalDeposited += tier.PriceLamports

	eventInfo.Account.Data = event.Marshal()
	vaultStateInfo.Account.Data = vaultState.Marshal()
	eventPassInfo.Account.Data = pass.Marshal()

	return nil
}

func (p *Processor) checkIn(ictx *bank.InstructionContext) error {
	if err := ictx.RequireAccounts(3); err != nil {
		return err
	}

	verifierInfo := ictx.Accounts[0]
	eventInfo := ictx.Accounts[1]
	eventPassInfo := ictx.Accounts[2]

	if !verifierInfo.IsSigner {
		return bank.ErrMissingSignature
	}

	event, err := p.loadEvent(eventInfo)
	if err != nil {
		return err
	}
	pass, err := p.loadEventPass(eventPassInfo, eventInfo.Key)
	if err != nil {
		return err
	}

	now := ictx.UnixTime()
	if now < event.StartTs {
		return ErrEventNotStarted.ToCustomError()
	}
	if now > event.EndTs {
		return ErrEventEnded.ToCustomError()
	}

	authorized := bytes.Equal(verifierInfo.Key, event.Organizer) ||
		bytes.Equal(verifierInfo.Key, pass.Owner)
	for _, verifier := range event.AuthorizedVerifiers {
		if bytes.Equal(verifierInfo.Key, verifier) {
			authorized = true
			break
		}
	}
	if !authorized {
		return ErrUnauthorizedVerifier.ToCustomError()
	}

	if pass.CheckedIn {
		return ErrAlreadyCheckedIn.ToCustomError()
	}

	pass.CheckedIn = true
	pass.CheckedInAt = pointer.Int64(now)

	eventPassInfo.Account.Data = pass.Marshal()

	return nil
}

func (p *Processor) withdrawTreasury(ictx *bank.InstructionContext) error {
	if err := ictx.RequireAccounts(5); err != nil {
		return err
	}

	organizerInfo := ictx.Accounts[0]
	eventInfo := ictx.Accounts[1]
	vaultStateInfo := ictx.Accounts[2]
	destinationInfo := ictx.Accounts[3]
	vaultTreasuryInfo := ictx.Accounts[4]

	if !organizerInfo.IsSigner {
		return bank.ErrMissingSignature
	}

	event, err := p.loadEvent(eventInfo)
	if err != nil {
		return err
	}
	if !bytes.Equal(event.Organizer, organizerInfo.Key) {
		return bank.ErrInvalidArgument
	}
	if !bytes.Equal(event.SettlementTreasury, destinationInfo.Key) {
		return bank.ErrInvalidArgument
	}

	vaultState, err := p.loadVaultState(vaultStateInfo, eventInfo.Key)
	if err != nil {
		return err
	}
	if err := p.checkVaultTreasury(vaultTreasuryInfo, eventInfo.Key, vaultState.VaultTreasuryBump); err != nil {
		return err
	}

	if event.Settled {
		return ErrAlreadySettled.ToCustomError()
	}
	if ictx.UnixTime() < event.EndTs {
		return ErrEventNotEnded.ToCustomError()
	}

	balance := vaultTreasuryInfo.Account.Lamports
	if balance == 0 {
		return ErrNothingToWithdraw.ToCustomError()
	}

	vaultTreasuryInfo.Account.Lamports -= balance
	destinationInfo.Account.Lamports += balance

	if vaultState.TotalWithdrawn > math.MaxUint64-balance {
		return ErrMathOverflow.ToCustomError()
	}
	vaultState.TotalWithdrawn += balance
	event.Settled = true

	eventInfo.Account.Data = event.Marshal()
	vaultStateInfo.Account.Data = vaultState.Marshal()

	return nil
}

func (p *Processor) harvestYield(ictx *bank.InstructionContext) error {
	if err := ictx.RequireAccounts(6); err != nil {
		return err
	}

	args, err := HarvestYieldInstructionFromBinary(ictx.Data)
	if err != nil {
		return bank.ErrInvalidInstructionData
	}
	if args.Amount == 0 {
		return ErrInvalidHarvestAmount.ToCustomError()
	}

	organizerInfo := ictx.Accounts[0]
	eventInfo := ictx.Accounts[1]
	vaultStateInfo := ictx.Accounts[2]
	vaultTreasuryInfo := ictx.Accounts[3]
	adapterReserveInfo := ictx.Accounts[4]
	adapterProgramInfo := ictx.Accounts[5]

	if !organizerInfo.IsSigner {
		return bank.ErrMissingSignature
	}
	if !bytes.Equal(adapterProgramInfo.Key, VAULT_ADAPTER_PROGRAM_ID) {
		return bank.ErrIncorrectProgramID
	}

	event, err := p.loadEvent(eventInfo)
	if err != nil {
		return err
	}
	if !bytes.Equal(event.Organizer, organizerInfo.Key) {
		return bank.ErrInvalidArgument
	}
	if event.Settled {
		return ErrAlreadySettled.ToCustomError()
	}
	if event.YieldStrategy == YieldStrategyNone {
		return ErrNoYieldStrategy.ToCustomError()
	}

	vaultState, err := p.loadVaultState(vaultStateInfo, eventInfo.Key)
	if err != nil {
		return err
	}
	if err := p.checkVaultTreasury(vaultTreasuryInfo, eventInfo.Key, vaultState.VaultTreasuryBump); err != nil {
		return err
	}

	err = ictx.Invoke(vault_stub.NewHarvestInstruction(
		&vault_stub.HarvestInstructionAccounts{
			Adapter:     adapterReserveInfo.Key,
			Destination: vaultTreasuryInfo.Key,
		},
		&vault_stub.HarvestInstructionArgs{
			Amount: args.Amount,
		},
	))
	if err != nil {
		return err
	}

	if vaultState.TotalYieldHarvested > math.MaxUint64-args.Amount {
		return ErrMathOverflow.ToCustomError()
	}
	vaultState.TotalYieldHarvested += args.Amount
	vaultState.LastHarvestTs = ictx.UnixTime()

	vaultStateInfo.Account.Data = vaultState.Marshal()

	return nil
}

func (p *Processor) issueLoyaltyNft(ictx *bank.InstructionContext) error {
	if err := ictx.RequireAccounts(10); err != nil {
		return err
	}

	organizerInfo := ictx.Accounts[0]
	eventInfo := ictx.Accounts[1]
	eventPassInfo := ictx.Accounts[2]
	passOwnerInfo := ictx.Accounts[3]
	loyaltyMintInfo := ictx.Accounts[4]
	loyaltyTokenAccountInfo := ictx.Accounts[5]

	if !organizerInfo.IsSigner {
		return bank.ErrMissingSignature
	}

	event, err := p.loadEvent(eventInfo)
	if err != nil {
		return err
	}
	if !bytes.Equal(event.Organizer, organizerInfo.Key) {
		return bank.ErrInvalidArgument
	}

	pass, err := p.loadEventPass(eventPassInfo, eventInfo.Key)
	if err != nil {
		return err
	}
	if !bytes.Equal(pass.Owner, passOwnerInfo.Key) {
		return bank.ErrInvalidArgument
	}

	if !pass.CheckedIn {
		return ErrPassNotCheckedIn.ToCustomError()
	}
	if len(pass.LoyaltyMint) > 0 {
		return ErrLoyaltyAlreadyIssued.ToCustomError()
	}

	mintAddress, mintBump, err := GetLoyaltyMintAddress(&GetLoyaltyMintAddressArgs{
		EventPass: eventPassInfo.Key,
	})
	if err != nil || !bytes.Equal(mintAddress, loyaltyMintInfo.Key) {
		return bank.ErrInvalidSeeds
	}

	if !bytes.Equal(loyaltyMintInfo.Account.Owner, SPL_TOKEN_PROGRAM_ID) {
		err = ictx.InvokeSigned(
			system.CreateAccount(
				organizerInfo.Key,
				loyaltyMintInfo.Key,
				SPL_TOKEN_PROGRAM_ID,
				bank.MinimumBalance(token.MintSize),
				token.MintSize,
			),
			[][]byte{loyaltyMintPrefix, eventPassInfo.Key, {mintBump}},
		)
		if err != nil {
			return err
		}

		err = ictx.Invoke(token.InitializeMint(loyaltyMintInfo.Key, organizerInfo.Key, nil, 0))
		if err != nil {
			return err
		}
	} else {
		var mint token.Mint
		if !mint.Unmarshal(loyaltyMintInfo.Account.Data) || !mint.IsInitialized {
			return bank.ErrInvalidAccountData
		}
		if !bytes.Equal(mint.MintAuthority, organizerInfo.Key) {
			return bank.ErrInvalidArgument
		}
	}

	expectedTokenAccount, err := token.GetAssociatedAccount(passOwnerInfo.Key, loyaltyMintInfo.Key)
	if err != nil || !bytes.Equal(expectedTokenAccount, loyaltyTokenAccountInfo.Key) {
		return bank.ErrInvalidSeeds
	}

	if !bytes.Equal(loyaltyTokenAccountInfo.Account.Owner, SPL_TOKEN_PROGRAM_ID) {
		createTokenAccount, _, err := token.CreateAssociatedTokenAccount(
			organizerInfo.Key,
			passOwnerInfo.Key,
			loyaltyMintInfo.Key,
		)
		if err != nil {
			return bank.ErrInvalidSeeds
		}
		if err := ictx.Invoke(createTokenAccount); err != nil {
			return err
		}
	}

	err = ictx.Invoke(token.MintTo(loyaltyMintInfo.Key, loyaltyTokenAccountInfo.Key, organizerInfo.Key, 1))
	if err != nil {
		return err
	}

	pass.LoyaltyMint = loyaltyMintInfo.Key

	eventPassInfo.Account.Data = pass.Marshal()

	return nil
}

func (p *Processor) loadEvent(info *bank.AccountInfo) (*EventAccount, error) {
	if !bytes.Equal(info.Account.Owner, PROGRAM_ID) {
		return nil, bank.ErrInvalidAccountData
	}

	var event EventAccount
	if err := event.Unmarshal(info.Account.Data); err != nil {
		return nil, bank.ErrInvalidAccountData
	}

	eventIDBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(eventIDBytes, event.EventID)

	derived, err := solana.CreateProgramAddress(
		PROGRAM_ID,
		eventPrefix,
		event.Organizer,
		eventIDBytes,
		[]byte{event.Bump},
	)
	if err != nil || !bytes.Equal(derived, info.Key) {
		return nil, bank.ErrInvalidSeeds
	}

	return &event, nil
}

func (p *Processor) loadVaultState(info *bank.AccountInfo, event ed25519.PublicKey) (*VaultStateAccount, error) {
	if !bytes.Equal(info.Account.Owner, PROGRAM_ID) {
		return nil, bank.ErrInvalidAccountData
	}

	var vaultState VaultStateAccount
	if err := vaultState.Unmarshal(info.Account.Data); err != nil {
		return nil, bank.ErrInvalidAccountData
	}
	if !bytes.Equal(vaultState.Event, event) {
		return nil, bank.ErrInvalidArgument
	}

	derived, err := solana.CreateProgramAddress(
		PROGRAM_ID,
		vaultStatePrefix,
		event,
		[]byte{vaultState.Bump},
	)
	if err != nil || !bytes.Equal(derived, info.Key) {
		return nil, bank.ErrInvalidSeeds
	}

	return &vaultState, nil
}

func (p *Processor) loadEventPass(info *bank.AccountInfo, event ed25519.PublicKey) (*EventPassAccount, error) {
	if !bytes.Equal(info.Account.Owner, PROGRAM_ID) {
		return nil, bank.ErrInvalidAccountData
	}

	var pass EventPassAccount
	if err := pass.Unmarshal(info.Account.Data); err != nil {
		return nil, bank.ErrInvalidAccountData
	}
	if !bytes.Equal(pass.Event, event) {
		return nil, bank.ErrInvalidArgument
	}

	derived, err := solana.CreateProgramAddress(
		PROGRAM_ID,
		eventPassPrefix,
		event,
		pass.Owner,
		[]byte{pass.TierID},
		[]byte{pass.Bump},
	)
	if err != nil || !bytes.Equal(derived, info.Key) {
		return nil, bank.ErrInvalidSeeds
	}

	return &pass, nil
}

func (p *Processor) checkVaultTreasury(info *bank.AccountInfo, event ed25519.PublicKey, bump uint8) error {
	derived, err := solana.CreateProgramAddress(
		PROGRAM_ID,
		vaultTreasuryPrefix,
		event,
		[]byte{bump},
	)
	if err != nil || !bytes.Equal(derived, info.Key) {
		return bank.ErrInvalidSeeds
	}

	return nil
}
