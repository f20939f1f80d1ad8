package idoprogram

import "github.com/gagliardetto/solana-go"

// TokenAdapter is the external token-program collaborator: every mint,
// burn, and transfer operation in this package is delegated to it rather
// than performed directly, mirroring how the original program never moves
// tokens itself but always issues a signed cross-program invocation to the
// SPL token program. Failures propagate unchanged, except that Participate
// reports a failed whitelist-token burn as ErrWhitelistRequired.
type TokenAdapter interface {
	// Transfer moves amount tokens from src to dst. signer is the authority
	// expected to have approved the move (either the owning wallet or the
	// pool's authority PDA for program-owned accounts).
	Transfer(src, dst, signer solana.PublicKey, amount uint64) error

	// MintTo mints amount tokens of mint into dst, authorized by signer
	// (the mint's configured authority).
	MintTo(mint, dst, signer solana.PublicKey, amount uint64) error

	// Burn destroys amount tokens of mint held in src, authorized by
	// signer.
	Burn(mint, src, signer solana.PublicKey, amount uint64) error

	// InitMint creates a new mint owned by authority.
	InitMint(mint, authority solana.PublicKey) error

	// InitAccount creates a new token account for mint, owned by owner.
	InitAccount(account, mint, owner solana.PublicKey) error

	// BalanceOf returns the current balance of account. Claim and Withdraw
	// need this to know how much to burn/transfer before invoking the
	// corresponding mutation.
	BalanceOf(account solana.PublicKey) (uint64, error)
}

// LedgerAdapter is an in-memory TokenAdapter: a map of mint->authority, a
// map of account->(mint,owner,balance). It lets the full handler suite run
// against AccountStore without an RPC endpoint, the same role
// solprogram/parser.go's manual offset parsing plays for the teacher's
// off-chain reads, generalized here to a read-write ledger.
type LedgerAdapter struct {
	mints    map[solana.PublicKey]solana.PublicKey // mint -> authority
	accounts map[solana.PublicKey]*ledgerAccount
}

type ledgerAccount struct {
	mint    solana.PublicKey
	owner   solana.PublicKey
	balance uint64
}

// NewLedgerAdapter builds an empty in-memory token ledger.
func NewLedgerAdapter() *LedgerAdapter {
	return &LedgerAdapter{
		mints:    make(map[solana.PublicKey]solana.PublicKey),
		accounts: make(map[solana.PublicKey]*ledgerAccount),
	}
}

func (l *LedgerAdapter) InitMint(mint, authority solana.PublicKey) error {
	if _, exists := l.mints[mint]; exists {
		return NewError(ErrAlreadyInitialized)
	}
	l.mints[mint] = authority
	return nil
}

func (l *LedgerAdapter) InitAccount(account, mint, owner solana.PublicKey) error {
	if _, exists := l.accounts[account]; exists {
		return NewError(ErrAlreadyInitialized)
	}
	l.accounts[account] = &ledgerAccount{mint: mint, owner: owner}
	return nil
}

func (l *LedgerAdapter) MintTo(mint, dst, signer solana.PublicKey, amount uint64) error {
	authority, ok := l.mints[mint]
	if !ok {
		return NewErrorf(ErrInvalidAccounts, "mint %s not initialized", mint)
	}
	if !authority.Equals(signer) {
		return NewError(ErrMissingSignature)
	}
	acct, ok := l.accounts[dst]
	if !ok {
		return NewErrorf(ErrInvalidAccounts, "token account %s not initialized", dst)
	}
	if !acct.mint.Equals(mint) {
		return NewError(ErrInvalidAccountAddress)
	}
	sum, err := CheckedAdd(acct.balance, amount)
	if err != nil {
		return err
	}
	acct.balance = sum
	return nil
}

func (l *LedgerAdapter) Burn(mint, src, signer solana.PublicKey, amount uint64) error {
	acct, ok := l.accounts[src]
	if !ok {
		return NewErrorf(ErrInvalidAccounts, "token account %s not initialized", src)
	}
	if !acct.mint.Equals(mint) {
		return NewError(ErrInvalidAccountAddress)
	}
	if !acct.owner.Equals(signer) {
		return NewError(ErrMissingSignature)
	}
	diff, err := CheckedSub(acct.balance, amount)
	if err != nil {
		return err
	}
	acct.balance = diff
	return nil
}

func (l *LedgerAdapter) Transfer(src, dst, signer solana.PublicKey, amount uint64) error {
	from, ok := l.accounts[src]
	if !ok {
		return NewErrorf(ErrInvalidAccounts, "token account %s not initialized", src)
	}
	to, ok := l.accounts[dst]
	if !ok {
		return NewErrorf(ErrInvalidAccounts, "token account %s not initialized", dst)
	}
	if !from.owner.Equals(signer) {
		return NewError(ErrMissingSignature)
	}
	if !from.mint.Equals(to.mint) {
		return NewError(ErrInvalidAccountAddress)
	}
	remaining, err := CheckedSub(from.balance, amount)
	if err != nil {
		return err
	}
	credited, err := CheckedAdd(to.balance, amount)
	if err != nil {
		return err
	}
	from.balance = remaining
	to.balance = credited
	return nil
}

// BalanceOf returns the current balance of account. Used by tests and by
// Claim/Withdraw to read "burn/transfer everything the caller holds"
// amounts.
func (l *LedgerAdapter) BalanceOf(account solana.PublicKey) (uint64, error) {
	acct, ok := l.accounts[account]
	if !ok {
		return 0, NewErrorf(ErrInvalidAccounts, "token account %s not initialized", account)
	}
	return acct.balance, nil
}

// SupplyOf sums every account balance denominated in mint. Used by tests
// asserting the pool-mint supply conservation invariant.
func (l *LedgerAdapter) SupplyOf(mint solana.PublicKey) uint64 {
	var total uint64
	for _, acct := range l.accounts {
		if acct.mint.Equals(mint) {
			total += acct.balance
		}
	}
	return total
}

// ledgerSnapshot is the deep-copied internal state Snapshot/Restore pass
// through AccountStore.Atomic.
type ledgerSnapshot struct {
	mints    map[solana.PublicKey]solana.PublicKey
	accounts map[solana.PublicKey]ledgerAccount
}

// Snapshot captures a deep copy of l's mints and accounts, satisfying
// AccountStore's snapshotter cooperation interface.
func (l *LedgerAdapter) Snapshot() any {
	mints := make(map[solana.PublicKey]solana.PublicKey, len(l.mints))
	for k, v := range l.mints {
		mints[k] = v
	}
	accounts := make(map[solana.PublicKey]ledgerAccount, len(l.accounts))
	for k, v := range l.accounts {
		accounts[k] = *v
	}
	return ledgerSnapshot{mints: mints, accounts: accounts}
}

// Restore replaces l's mints and accounts with a previously captured
// ledgerSnapshot. A snap of any other type is ignored.
func (l *LedgerAdapter) Restore(snap any) {
	s, ok := snap.(ledgerSnapshot)
	if !ok {
		return
	}
	l.mints = make(map[solana.PublicKey]solana.PublicKey, len(s.mints))
	for k, v := range s.mints {
		l.mints[k] = v
	}
	l.accounts = make(map[solana.PublicKey]*ledgerAccount, len(s.accounts))
	for k, v := range s.accounts {
		a := v
		l.accounts[k] = &a
	}
}
