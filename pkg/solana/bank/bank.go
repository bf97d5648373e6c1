package bank

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/eventflux-labs/eventflux-server/pkg/solana"
)

// Sentinel errors handlers return to signal runtime-level instruction
// failures. Program-specific failures are returned as solana.CustomError
// values instead.
var (
	ErrMissingSignature          = errors.New(string(solana.InstructionErrorMissingRequiredSignature))
	ErrNotEnoughAccountKeys      = errors.New(string(solana.InstructionErrorNotEnoughAccountKeys))
	ErrAccountAlreadyInitialized = errors.New(string(solana.InstructionErrorAccountAlreadyInitialized))
	ErrUninitializedAccount      = errors.New(string(solana.InstructionErrorUninitializedAccount))
	ErrInvalidInstructionData    = errors.New(string(solana.InstructionErrorInvalidInstructionData))
	ErrInvalidAccountData        = errors.New(string(solana.InstructionErrorInvalidAccountData))
	ErrInvalidArgument           = errors.New(string(solana.InstructionErrorInvalidArgument))
	ErrMissingAccount            = errors.New(string(solana.InstructionErrorMissingAccount))
	ErrInvalidSeeds              = errors.New(string(solana.InstructionErrorInvalidSeeds))
	ErrIncorrectProgramID        = errors.New(string(solana.InstructionErrorIncorrectProgramID))
)

// Account is the ledger-side state of an address: a lamport balance, a data
// buffer, and the program that owns (and may mutate) it.
type Account struct {
	Lamports uint64
	Owner    ed25519.PublicKey
	Data     []byte
}

func (a *Account) clone() *Account {
	if a == nil {
		return nil
	}

	c := &Account{
		Lamports: a.Lamports,
		Owner:    append(ed25519.PublicKey(nil), a.Owner...),
		Data:     append([]byte(nil), a.Data...),
	}
	return c
}

func (a *Account) equals(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}

	return a.Lamports == other.Lamports &&
		bytes.Equal(a.Owner, other.Owner) &&
		bytes.Equal(a.Data, other.Data)
}

// isEmpty reports whether the account carries no state at all, and so does
// not exist from the ledger's point of view.
func (a *Account) isEmpty() bool {
	return a == nil || (a.Lamports == 0 && len(a.Data) == 0 && len(a.Owner) == 0)
}

// Program is an executable registered with the bank. Execute runs a single
// instruction to completion against the accounts the transaction declared;
// any returned error aborts and rolls back the entire transaction.
type Program interface {
	ID() ed25519.PublicKey
	Execute(ictx *InstructionContext) error
}

// Bank is a deterministic, in-memory stand-in for the host ledger. It owns
// every account, admits transactions one at a time, and guarantees the
// all-or-nothing commit semantics programs rely on: conflicting submissions
// are serialized by construction, so a handler never observes a torn read.
type Bank struct {
	log      *logrus.Entry
	clock    Clock
	accounts map[string]*Account
	programs map[string]Program
	seen     map[string]struct{}
}

func New(clock Clock) *Bank {
	b := &Bank{
		log:      logrus.StandardLogger().WithField("type", "solana/bank"),
		clock:    clock,
		accounts: make(map[string]*Account),
		programs: make(map[string]Program),
		seen:     make(map[string]struct{}),
	}

	b.Register(&systemProgram{})
	b.Register(&tokenProgram{})
	b.Register(&associatedTokenProgram{})

	return b
}

// Register installs a program at its id.
func (b *Bank) Register(p Program) {
	b.programs[base58.Encode(p.ID())] = p
}

// Clock returns the clock feeding the clock sysvar.
func (b *Bank) Clock() Clock {
	return b.clock
}

// Airdrop credits an address with lamports outside of any transaction.
func (b *Bank) Airdrop(pub ed25519.PublicKey, lamports uint64) {
	account := b.load(pub)
	account.Lamports += lamports
}

// Account returns a copy of the account at the provided address, if it
// exists.
func (b *Bank) Account(pub ed25519.PublicKey) (*Account, bool) {
	account, ok := b.accounts[base58.Encode(pub)]
	if !ok || account.isEmpty() {
		return nil, false
	}

	return account.clone(), true
}

// Balance returns the lamport balance at the provided address.
func (b *Bank) Balance(pub ed25519.PublicKey) uint64 {
	account, ok := b.accounts[base58.Encode(pub)]
	if !ok {
		return 0
	}

	return account.Lamports
}

func (b *Bank) load(pub ed25519.PublicKey) *Account {
	k := base58.Encode(pub)
	account, ok := b.accounts[k]
	if !ok {
		account = &Account{}
		b.accounts[k] = account
	}

	return account
}

// ProcessTransaction verifies and executes a signed transaction. On any
// failure the entire write-set is rolled back and a transaction error is
// returned; on success all mutations are committed atomically.
func (b *Bank) ProcessTransaction(txn solana.Transaction) *solana.TransactionError {
	msg := txn.Message

	log := b.log.WithField("method", "ProcessTransaction")

	if int(msg.Header.NumSignatures) > len(msg.Accounts) {
		return solana.NewTransactionError(solana.TransactionErrorInvalidAccountIndex)
	}
	if len(txn.Signatures) < int(msg.Header.NumSignatures) {
		return solana.NewTransactionError(solana.TransactionErrorMissingSignatureForFee)
	}

	messageBytes := msg.Marshal()
	for i := 0; i < int(msg.Header.NumSignatures); i++ {
		if !ed25519.Verify(msg.Accounts[i], messageBytes, txn.Signatures[i][:]) {
			return solana.NewTransactionError(solana.TransactionErrorSignatureFailure)
		}
	}

	sigKey := string(txn.Signatures[0][:])
	if _, ok := b.seen[sigKey]; ok {
		return solana.NewTransactionError(solana.TransactionErrorDuplicateSignature)
	}

	// Snapshot every referenced account so a failure anywhere in the
	// transaction restores the exact pre-transaction state.
	snapshot := make([]*Account, len(msg.Accounts))
	for i, key := range msg.Accounts {
		snapshot[i] = b.load(key).clone()
	}

	for index, ci := range msg.Instructions {
		programKey := msg.Accounts[ci.ProgramIndex]
		program, ok := b.programs[base58.Encode(programKey)]
		if !ok {
			b.restore(msg.Accounts, snapshot)
			return solana.NewTransactionError(solana.TransactionErrorProgramAccountNotFound)
		}

		ictx := &InstructionContext{
			bank:      b,
			index:     index,
			ProgramID: programKey,
			Data:      ci.Data,
			log: log.WithFields(logrus.Fields{
				"program":     base58.Encode(programKey),
				"instruction": index,
			}),
		}
		for _, accountIndex := range ci.Accounts {
			ictx.Accounts = append(ictx.Accounts, &AccountInfo{
				Key:        msg.Accounts[accountIndex],
				IsSigner:   msg.IsSigner(int(accountIndex)),
				IsWritable: msg.IsWritable(int(accountIndex)),
				Account:    b.load(msg.Accounts[accountIndex]),
			})
		}

		before := make([]*Account, len(msg.Accounts))
		var lamportsBefore uint64
		for i, key := range msg.Accounts {
			before[i] = b.load(key).clone()
			lamportsBefore += before[i].Lamports
		}

		if err := program.Execute(ictx); err != nil {
			ictx.log.WithError(err).Debug("instruction failed")

			b.restore(msg.Accounts, snapshot)
			return instructionFailure(index, err)
		}

		// Post-execution runtime checks: readonly accounts must not have
		// changed, and lamports must be conserved across the instruction.
		var lamportsAfter uint64
		for i, key := range msg.Accounts {
			after := b.load(key)
			lamportsAfter += after.Lamports

			if msg.IsWritable(i) {
				continue
			}

			if after.Lamports != before[i].Lamports {
				b.restore(msg.Accounts, snapshot)
				return mustTransactionError(solana.NewInstructionError(index, solana.InstructionErrorReadonlyLamportChange))
			}
			if !after.equals(before[i]) {
				b.restore(msg.Accounts, snapshot)
				return mustTransactionError(solana.NewInstructionError(index, solana.InstructionErrorReadonlyDataModified))
			}
		}
		if lamportsBefore != lamportsAfter {
			b.restore(msg.Accounts, snapshot)
			return mustTransactionError(solana.NewInstructionError(index, solana.InstructionErrorUnbalancedInstruction))
		}
	}

	b.seen[sigKey] = struct{}{}
	b.compact(msg.Accounts)

	log.WithField("signature", base58.Encode(txn.Signature())).Trace("transaction committed")

	return nil
}

func (b *Bank) restore(keys []ed25519.PublicKey, snapshot []*Account) {
	for i, key := range keys {
		b.accounts[base58.Encode(key)] = snapshot[i]
	}
	b.compact(keys)
}

// compact drops placeholder entries for accounts that never came into
// existence.
func (b *Bank) compact(keys []ed25519.PublicKey) {
	for _, key := range keys {
		k := base58.Encode(key)
		if account, ok := b.accounts[k]; ok && account.isEmpty() {
			delete(b.accounts, k)
		}
	}
}

func instructionFailure(index int, err error) *solana.TransactionError {
	cause := errors.Cause(err)

	if customErr, ok := cause.(solana.CustomError); ok {
		return mustTransactionError(solana.NewCustomInstructionError(index, customErr))
	}

	return mustTransactionError(&solana.InstructionError{
		Index: index,
		Err:   cause,
	})
}

func mustTransactionError(instructionErr *solana.InstructionError) *solana.TransactionError {
	txErr, err := solana.TransactionErrorFromInstructionError(instructionErr)
	if err != nil {
		// The JSON form of our own instruction errors always marshals.
		panic(err)
	}

	return txErr
}
