package bank

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
	"github.com/eventflux-labs/eventflux-server/pkg/solana/system"
)

// System program custom error codes.
//
// Reference: https://github.com/solana-labs/solana/blob/master/sdk/program/src/system_instruction.rs#L26
const (
	systemErrorAccountAlreadyInUse        = solana.CustomError(0)
	systemErrorResultWithNegativeLamports = solana.CustomError(1)
)

type systemProgram struct{}

func (p *systemProgram) ID() ed25519.PublicKey {
	return system.ProgramKey[:]
}

func (p *systemProgram) Execute(ictx *InstructionContext) error {
	if len(ictx.Data) < 4 {
		return ErrInvalidInstructionData
	}

	switch binary.LittleEndian.Uint32(ictx.Data) {
	case system.CommandCreateAccount:
		return p.createAccount(ictx)
	case system.CommandTransfer:
		return p.transfer(ictx)
	default:
		return ErrInvalidInstructionData
	}
}

func (p *systemProgram) createAccount(ictx *InstructionContext) error {
	if err := ictx.RequireAccounts(2); err != nil {
		return err
	}
	if len(ictx.Data) != 4+2*8+32 {
		return ErrInvalidInstructionData
	}

	funder := ictx.Accounts[0]
	target := ictx.Accounts[1]

	if !funder.IsSigner || !target.IsSigner {
		return ErrMissingSignature
	}
	if !target.Account.isEmpty() {
		return systemErrorAccountAlreadyInUse
	}

	lamports := binary.LittleEndian.Uint64(ictx.Data[4:])
	size := binary.LittleEndian.Uint64(ictx.Data[4+8:])
	owner := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(owner, ictx.Data[4+2*8:])

	if funder.Account.Lamports < lamports {
		return systemErrorResultWithNegativeLamports
	}

	funder.Account.Lamports -= lamports
	target.Account.Lamports = lamports
	target.Account.Owner = owner
	target.Account.Data = make([]byte, size)

	return nil
}

func (p *systemProgram) transfer(ictx *InstructionContext) error {
	if err := ictx.RequireAccounts(2); err != nil {
		return err
	}
	if len(ictx.Data) != 4+8 {
		return ErrInvalidInstructionData
	}

	sender := ictx.Accounts[0]
	receiver := ictx.Accounts[1]

	if !sender.IsSigner {
		return ErrMissingSignature
	}

	// Only system-owned accounts can be debited by a transfer.
	if len(sender.Account.Owner) > 0 && !bytes.Equal(sender.Account.Owner, system.ProgramKey[:]) {
		return ErrInvalidArgument
	}

	lamports := binary.LittleEndian.Uint64(ictx.Data[4:])
	if sender.Account.Lamports < lamports {
		return systemErrorResultWithNegativeLamports
	}

	sender.Account.Lamports -= lamports
	receiver.Account.Lamports += lamports

	return nil
}
