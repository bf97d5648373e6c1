package bank

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
	"github.com/sirupsen/logrus"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

// AccountInfo is a single account as seen by an executing instruction. The
// Account pointer refers to live ledger state; mutations become visible to
// subsequent instructions and are committed when the transaction succeeds.
type AccountInfo struct {
	Key        ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
	Account    *Account
}

// InstructionContext carries everything a program needs to execute one
// instruction: the declared accounts with their privileges, the raw
// instruction data, and hooks back into the bank for time and CPI.
type InstructionContext struct {
	bank      *Bank
	index     int
	depth     int
	ProgramID ed25519.PublicKey
	Accounts  []*AccountInfo
	Data      []byte
	log       *logrus.Entry
}

const maxInvokeDepth = 4

// Log returns a logger scoped to the executing instruction.
func (ictx *InstructionContext) Log() *logrus.Entry {
	return ictx.log
}

// UnixTime returns the bank clock's view of the current unix timestamp, the
// same value the clock sysvar would expose.
func (ictx *InstructionContext) UnixTime() int64 {
	return ictx.bank.clock.Now().Unix()
}

// RequireAccounts fails the instruction if fewer than n accounts were
// provided.
func (ictx *InstructionContext) RequireAccounts(n int) error {
	if len(ictx.Accounts) < n {
		return ErrNotEnoughAccountKeys
	}

	return nil
}

func (ictx *InstructionContext) findAccount(key ed25519.PublicKey) *AccountInfo {
	for _, info := range ictx.Accounts {
		if bytes.Equal(info.Key, key) {
			return info
		}
	}

	return nil
}

// Invoke executes another program's instruction within the current
// transaction. Every referenced account must already be present in the
// calling context, and the callee only receives privileges the caller holds.
func (ictx *InstructionContext) Invoke(instruction solana.Instruction) error {
	return ictx.InvokeSigned(instruction)
}

// InvokeSigned is Invoke with signer privileges granted to program addresses
// derived from the calling program and the provided seed sets.
func (ictx *InstructionContext) InvokeSigned(instruction solana.Instruction, signerSeeds ...[][]byte) error {
	if ictx.depth >= maxInvokeDepth {
		return ErrInvalidArgument
	}

	granted := make(map[string]struct{})
	for _, seeds := range signerSeeds {
		derived, err := solana.CreateProgramAddress(ictx.ProgramID, seeds...)
		if err != nil {
			return ErrInvalidSeeds
		}

		granted[base58.Encode(derived)] = struct{}{}
	}

	program, ok := ictx.bank.programs[base58.Encode(instruction.Program)]
	if !ok {
		return ErrMissingAccount
	}

	callee := &InstructionContext{
		bank:      ictx.bank,
		index:     ictx.index,
		depth:     ictx.depth + 1,
		ProgramID: instruction.Program,
		Data:      instruction.Data,
		log:       ictx.log.WithField("cpi", base58.Encode(instruction.Program)),
	}

	for _, meta := range instruction.Accounts {
		parent := ictx.findAccount(meta.PublicKey)
		if parent == nil {
			return ErrMissingAccount
		}

		_, seedSigner := granted[base58.Encode(meta.PublicKey)]

		if meta.IsSigner && !parent.IsSigner && !seedSigner {
			return ErrMissingSignature
		}
		if meta.IsWritable && !parent.IsWritable {
			return ErrInvalidArgument
		}

		callee.Accounts = append(callee.Accounts, &AccountInfo{
			Key:        meta.PublicKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    parent.Account,
		})
	}

	return program.Execute(callee)
}
