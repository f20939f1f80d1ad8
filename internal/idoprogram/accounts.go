package idoprogram

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// ClockSource substitutes for the clock sysvar: Now returns the current unix
// second the dispatcher should treat as "now".
type ClockSource interface {
	Now() int64
}

// SystemClock is the production ClockSource, backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// FixedClock is a settable ClockSource for tests and for replaying a
// specific instant.
type FixedClock int64

func (c FixedClock) Now() int64 { return int64(c) }

// RentOracle substitutes for the rent sysvar: IsExempt reports whether an
// account with the given lamport balance and data length clears the
// rent-exempt minimum.
type RentOracle interface {
	IsExempt(lamports uint64, dataLen int) bool
}

// lamportsPerByteYear and accountOverheadBytes follow the Solana mainnet
// rent schedule (3480 lamports per byte-year, with two years of rent
// pre-paid for exemption); this is the same constant the cluster's rent
// sysvar uses.
const (
	lamportsPerByteYear  = 3480
	rentExemptYears      = 2
	accountOverheadBytes = 128
)

// DefaultRentOracle implements the cluster's two-year rent-exemption
// formula.
type DefaultRentOracle struct{}

func (DefaultRentOracle) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= DefaultRentOracle{}.MinimumBalance(dataLen)
}

// MinimumBalance returns the lamport balance required for a dataLen-byte
// account to clear rent exemption, the funding amount a client must airdrop
// before an init instruction runs.
func (DefaultRentOracle) MinimumBalance(dataLen int) uint64 {
	return uint64(dataLen+accountOverheadBytes) * lamportsPerByteYear * rentExemptYears
}

// Account is the in-memory analogue of an on-chain account: an owner, a
// lamport balance, and a raw data blob whose first byte is always a
// discriminant tag.
type Account struct {
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
	Signer   bool
}

// AccountStore is the in-memory ledger of accounts Dispatch operates over.
// It is intentionally not internally synchronized: a Dispatch call is the
// atomic unit, and serializing concurrent Dispatch calls against the same
// accounts is the caller's responsibility (see internal/idoserver's
// withPoolLock).
type AccountStore struct {
	accounts map[solana.PublicKey]*Account
	clock    ClockSource
	rent     RentOracle
	tokens   TokenAdapter
}

// NewAccountStore builds an empty store with the given clock, rent oracle,
// and token adapter. Passing nil for clock or rent substitutes the
// production defaults.
func NewAccountStore(clock ClockSource, rent RentOracle, tokens TokenAdapter) *AccountStore {
	if clock == nil {
		clock = SystemClock{}
	}
	if rent == nil {
		rent = DefaultRentOracle{}
	}
	return &AccountStore{
		accounts: make(map[solana.PublicKey]*Account),
		clock:    clock,
		rent:     rent,
		tokens:   tokens,
	}
}

// Now returns the store's current clock reading.
func (s *AccountStore) Now() int64 { return s.clock.Now() }

// Get returns the account at key, or a zero-value uninitialized account
// (Data nil, Owner zero) if none exists yet. The returned pointer is never
// nil. For an existing key it is the stored account, so in-place mutations
// are visible at once; for a key never written, the returned account is not
// stored until Put is called.
func (s *AccountStore) Get(key solana.PublicKey) *Account {
	if a, ok := s.accounts[key]; ok {
		return a
	}
	return &Account{}
}

// Put commits acc as the current state of key. Handlers call this once per
// mutated account at the end of a successful validation spine, modeling the
// host's atomic-commit-or-not semantics: nothing is written if the handler
// returns an error first.
func (s *AccountStore) Put(key solana.PublicKey, acc *Account) {
	s.accounts[key] = acc
}

// Exists reports whether key has ever been written.
func (s *AccountStore) Exists(key solana.PublicKey) bool {
	_, ok := s.accounts[key]
	return ok
}

// RequireRentExempt fails with ErrNotRentExempt if acc is below the
// rent-exempt minimum for its current data length.
func (s *AccountStore) RequireRentExempt(acc *Account) error {
	if !s.rent.IsExempt(acc.Lamports, len(acc.Data)) {
		return NewError(ErrNotRentExempt)
	}
	return nil
}

// rentExemptFor reports whether lamports clears the rent-exempt minimum for
// a record of dataLen bytes, used by handlers writing account data for the
// first time.
func (s *AccountStore) rentExemptFor(lamports uint64, dataLen int) bool {
	return s.rent.IsExempt(lamports, dataLen)
}

// Fund sets key's lamport balance and owner to simulate the system program
// creating and funding an account before an init instruction runs. Test
// setup, cmd/solstarter-cli and internal/idoserver's init handlers use this.
func (s *AccountStore) Fund(key, owner solana.PublicKey, lamports uint64) {
	acct := s.Get(key)
	acct.Owner = owner
	acct.Lamports = lamports
	s.accounts[key] = acct
}

// Tokens returns the store's token-program adapter.
func (s *AccountStore) Tokens() TokenAdapter { return s.tokens }

// snapshotter is implemented by a TokenAdapter that can save and restore its
// own internal state around an Atomic call. LedgerAdapter is the only
// implementor today; a TokenAdapter that doesn't implement it is simply left
// out of rollback (acceptable for an adapter with no mutable state of its
// own).
type snapshotter interface {
	Snapshot() any
	Restore(any)
}

// snapshot captures a deep copy of every account and, if the store's token
// adapter cooperates, its internal state too.
func (s *AccountStore) snapshot() (map[solana.PublicKey]Account, any) {
	accounts := make(map[solana.PublicKey]Account, len(s.accounts))
	for key, acct := range s.accounts {
		a := *acct
		a.Data = append([]byte(nil), acct.Data...)
		accounts[key] = a
	}
	var tokenState any
	if ts, ok := s.tokens.(snapshotter); ok {
		tokenState = ts.Snapshot()
	}
	return accounts, tokenState
}

// restore replaces the store's accounts and token-adapter state with a
// previously captured snapshot, discarding everything written since.
func (s *AccountStore) restore(accounts map[solana.PublicKey]Account, tokenState any) {
	s.accounts = make(map[solana.PublicKey]*Account, len(accounts))
	for key, acct := range accounts {
		a := acct
		s.accounts[key] = &a
	}
	if ts, ok := s.tokens.(snapshotter); ok {
		ts.Restore(tokenState)
	}
}

// Atomic runs fn against s and, if fn returns an error, rolls back every
// account and token-adapter mutation fn made before returning that error —
// the in-memory analogue of a failed transaction's writes never landing,
// per spec §4.6's failure policy and §5's atomic-commit-or-not-at-all
// semantics. Dispatch wraps every handler call in this.
func (s *AccountStore) Atomic(fn func() error) error {
	accounts, tokenState := s.snapshot()
	if err := fn(); err != nil {
		s.restore(accounts, tokenState)
		return err
	}
	return nil
}
