package vault_stub

import (
	"bytes"
	"crypto/ed25519"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
	"github.com/eventflux-labs/eventflux-server/pkg/solana/bank"
	"github.com/eventflux-labs/eventflux-server/pkg/solana/system"
)

// Processor executes vault adapter instructions against a bank ledger. The
// adapter reserve is a single PDA whose lamport balance stands in for an
// external yield venue.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) ID() ed25519.PublicKey {
	return PROGRAM_ID
}

func (p *Processor) Execute(ictx *bank.InstructionContext) error {
	switch {
	case IsInitializeInstruction(ictx.Data):
		return p.initialize(ictx)
	case bytes.HasPrefix(ictx.Data, fundReserveInstructionDiscriminator):
		return p.fundReserve(ictx)
	case bytes.HasPrefix(ictx.Data, harvestInstructionDiscriminator):
		return p.harvest(ictx)
	default:
		return bank.ErrInvalidInstructionData
	}
}

func (p *Processor) initialize(ictx *bank.InstructionContext) error {
	if err := ictx.RequireAccounts(2); err != nil {
		return err
	}

	adapterInfo := ictx.Accounts[0]
	authorityInfo := ictx.Accounts[1]

	if !authorityInfo.IsSigner {
		return bank.ErrMissingSignature
	}

	derived, bump, err := GetAdapterReserveAddress()
	if err != nil || !bytes.Equal(derived, adapterInfo.Key) {
		return bank.ErrInvalidSeeds
	}

	err = ictx.InvokeSigned(
		system.CreateAccount(
			authorityInfo.Key,
			adapterInfo.Key,
			PROGRAM_ID,
			bank.MinimumBalance(AdapterReserveAccountSize),
			AdapterReserveAccountSize,
		),
		[][]byte{adapterReservePrefix, {bump}},
	)
	if err != nil {
		return err
	}

	state := AdapterReserveAccount{Bump: bump}
	adapterInfo.Account.Data = state.Marshal()

	return nil
}

func (p *Processor) fundReserve(ictx *bank.InstructionContext) error {
	if err := ictx.RequireAccounts(2); err != nil {
		return err
	}

	args, err := FundReserveInstructionFromBinary(ictx.Data)
	if err != nil {
		return bank.ErrInvalidInstructionData
	}
	if args.Amount == 0 {
		return ErrInvalidAmount.ToCustomError()
	}

	funderInfo := ictx.Accounts[0]
	adapterInfo := ictx.Accounts[1]

	if !funderInfo.IsSigner {
		return bank.ErrMissingSignature
	}
	if _, err := p.loadReserve(adapterInfo); err != nil {
		return err
	}

	return ictx.Invoke(system.Transfer(funderInfo.Key, adapterInfo.Key, args.Amount))
}

func (p *Processor) harvest(ictx *bank.InstructionContext) error {
	if err := ictx.RequireAccounts(2); err != nil {
		return err
	}

	args, err := HarvestInstructionFromBinary(ictx.Data)
	if err != nil {
		return bank.ErrInvalidInstructionData
	}
	if args.Amount == 0 {
		return ErrInvalidAmount.ToCustomError()
	}

	adapterInfo := ictx.Accounts[0]
	destinationInfo := ictx.Accounts[1]

	if _, err := p.loadReserve(adapterInfo); err != nil {
		return err
	}

	if adapterInfo.Account.Lamports < args.Amount {
		return ErrInsufficientReserve.ToCustomError()
	}

	adapterInfo.Account.Lamports -= args.Amount
	destinationInfo.Account.Lamports += args.Amount

	return nil
}

func (p *Processor) loadReserve(info *bank.AccountInfo) (*AdapterReserveAccount, error) {
	if !bytes.Equal(info.Account.Owner, PROGRAM_ID) {
		return nil, bank.ErrInvalidAccountData
	}

	var state AdapterReserveAccount
	if err := state.Unmarshal(info.Account.Data); err != nil {
		return nil, bank.ErrInvalidAccountData
	}

	derived, err := solana.CreateProgramAddress(PROGRAM_ID, adapterReservePrefix, []byte{state.Bump})
	if err != nil || !bytes.Equal(derived, info.Key) {
		return nil, bank.ErrInvalidSeeds
	}

	return &state, nil
}
