package bank

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
	"github.com/eventflux-labs/eventflux-server/pkg/solana/system"
	"github.com/eventflux-labs/eventflux-server/pkg/solana/token"
)

type tokenProgram struct{}

func (p *tokenProgram) ID() ed25519.PublicKey {
	return token.ProgramKey
}

func (p *tokenProgram) Execute(ictx *InstructionContext) error {
	if len(ictx.Data) == 0 {
		return ErrInvalidInstructionData
	}

	switch token.Command(ictx.Data[0]) {
	case token.CommandInitializeMint:
		return p.initializeMint(ictx)
	case token.CommandInitializeAccount:
		return p.initializeAccount(ictx)
	case token.CommandMintTo:
		return p.mintTo(ictx)
	default:
		return ErrInvalidInstructionData
	}
}

func (p *tokenProgram) initializeMint(ictx *InstructionContext) error {
	if err := ictx.RequireAccounts(2); err != nil {
		return err
	}
	if len(ictx.Data) < 2+ed25519.PublicKeySize+1 {
		return ErrInvalidInstructionData
	}

	mintInfo := ictx.Accounts[0]
	if !mintInfo.Account.Owner.Equal(token.ProgramKey) || len(mintInfo.Account.Data) != token.MintSize {
		return ErrInvalidAccountData
	}
	if mintInfo.Account.Lamports < MinimumBalance(token.MintSize) {
		return token.ErrorNotRentExempt
	}

	var mint token.Mint
	if !mint.Unmarshal(mintInfo.Account.Data) {
		return ErrInvalidAccountData
	}
	if mint.IsInitialized {
		return token.ErrorAlreadyInUse
	}

	mint.Decimals = ictx.Data[1]
	mint.MintAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(mint.MintAuthority, ictx.Data[2:])
	if ictx.Data[2+ed25519.PublicKeySize] == 1 {
		if len(ictx.Data) != 2+2*ed25519.PublicKeySize+1 {
			return ErrInvalidInstructionData
		}
		mint.FreezeAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(mint.FreezeAuthority, ictx.Data[2+ed25519.PublicKeySize+1:])
	}
	mint.Supply = 0
	mint.IsInitialized = true

	mintInfo.Account.Data = mint.Marshal()

	return nil
}

func (p *tokenProgram) initializeAccount(ictx *InstructionContext) error {
	if err := ictx.RequireAccounts(4); err != nil {
		return err
	}

	accountInfo := ictx.Accounts[0]
	mintInfo := ictx.Accounts[1]
	ownerInfo := ictx.Accounts[2]

	if !accountInfo.Account.Owner.Equal(token.ProgramKey) || len(accountInfo.Account.Data) != token.AccountSize {
		return ErrInvalidAccountData
	}
	if accountInfo.Account.Lamports < MinimumBalance(token.AccountSize) {
		return token.ErrorNotRentExempt
	}

	var existing token.Account
	if existing.Unmarshal(accountInfo.Account.Data) && existing.State != token.AccountStateUninitialized {
		return token.ErrorAlreadyInUse
	}

	var mint token.Mint
	if !mint.Unmarshal(mintInfo.Account.Data) || !mint.IsInitialized {
		return token.ErrorInvalidMint
	}

	next := token.Account{
		Mint:  mintInfo.Key,
		Owner: ownerInfo.Key,
		State: token.AccountStateInitialized,
	}
	accountInfo.Account.Data = next.Marshal()

	return nil
}

func (p *tokenProgram) mintTo(ictx *InstructionContext) error {
	if err := ictx.RequireAccounts(3); err != nil {
		return err
	}
	if len(ictx.Data) != 9 {
		return ErrInvalidInstructionData
	}
	amount := binary.LittleEndian.Uint64(ictx.Data[1:])

	mintInfo := ictx.Accounts[0]
	destInfo := ictx.Accounts[1]
	authorityInfo := ictx.Accounts[2]

	var mint token.Mint
	if !mint.Unmarshal(mintInfo.Account.Data) || !mint.IsInitialized {
		return token.ErrorUninitializedState
	}

	var dest token.Account
	if !dest.Unmarshal(destInfo.Account.Data) || dest.State == token.AccountStateUninitialized {
		return token.ErrorUninitializedState
	}
	if !bytes.Equal(dest.Mint, mintInfo.Key) {
		return token.ErrorMintMismatch
	}

	if len(mint.MintAuthority) == 0 {
		return token.ErrorFixedSupply
	}
	if !bytes.Equal(mint.MintAuthority, authorityInfo.Key) {
		return token.ErrorOwnerMismatch
	}
	if !authorityInfo.IsSigner {
		return ErrMissingSignature
	}

	if mint.Supply > math.MaxUint64-amount {
		return ErrInvalidArgument
	}
	mint.Supply += amount
	dest.Amount += amount

	mintInfo.Account.Data = mint.Marshal()
	destInfo.Account.Data = dest.Marshal()

	return nil
}

type associatedTokenProgram struct{}

func (p *associatedTokenProgram) ID() ed25519.PublicKey {
	return token.AssociatedTokenAccountProgramKey
}

// Execute creates the associated token account for a wallet and mint: a
// system account of token.AccountSize bytes at the derived address, funded
// to rent exemption by the payer, then initialized as a holding account
// owned by the wallet.
func (p *associatedTokenProgram) Execute(ictx *InstructionContext) error {
	if err := ictx.RequireAccounts(7); err != nil {
		return err
	}

	payer := ictx.Accounts[0]
	address := ictx.Accounts[1]
	wallet := ictx.Accounts[2]
	mint := ictx.Accounts[3]

	if !payer.IsSigner {
		return ErrMissingSignature
	}

	derived, bump, err := solana.FindProgramAddressAndBump(
		token.AssociatedTokenAccountProgramKey,
		wallet.Key,
		token.ProgramKey,
		mint.Key,
	)
	if err != nil || !bytes.Equal(derived, address.Key) {
		return ErrInvalidSeeds
	}

	seeds := [][]byte{wallet.Key, token.ProgramKey, mint.Key, {bump}}

	err = ictx.InvokeSigned(
		system.CreateAccount(
			payer.Key,
			address.Key,
			token.ProgramKey,
			MinimumBalance(token.AccountSize),
			token.AccountSize,
		),
		seeds,
	)
	if err != nil {
		return err
	}

	return ictx.InvokeSigned(
		token.InitializeAccount(address.Key, mint.Key, wallet.Key),
		seeds,
	)
}
