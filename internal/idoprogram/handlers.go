package idoprogram

import "github.com/gagliardetto/solana-go"

// signedFunc reports whether a given pubkey signed the current instruction.
type signedFunc func(solana.PublicKey) bool

// MarketVersion is the version tag written into every Market record.
const MarketVersion uint8 = 1

// PoolVersion is the version tag written into every Pool record.
const PoolVersion uint8 = 1

// InitMarket writes a fresh Market with owner. Fails with AlreadyInitialized
// if the account's discriminant is non-zero, NotRentExempt if its funded
// balance is below the rent floor for the record size.
func InitMarket(store *AccountStore, market, owner solana.PublicKey, signed signedFunc) error {
	acct := store.Get(market)
	if Discriminant(acct.Data) != DiscUninitialized {
		return NewError(ErrAlreadyInitialized)
	}
	if !signed(owner) {
		return NewError(ErrMissingSignature)
	}

	data, err := EncodeMarket(&Market{Version: MarketVersion, Owner: owner})
	if err != nil {
		return err
	}
	if !store.rentExemptFor(acct.Lamports, len(data)) {
		return NewError(ErrNotRentExempt)
	}

	acct.Data = data
	store.Put(market, acct)
	return nil
}

// InitPoolAccounts binds the positional accounts for an InitPool
// instruction.
type InitPoolAccounts struct {
	Market              solana.PublicKey
	Pool                solana.PublicKey
	MarketOwner         solana.PublicKey
	MintCollection      solana.PublicKey
	MintDistribution    solana.PublicKey
	AccountCollection   solana.PublicKey
	AccountDistribution solana.PublicKey
	MintPool            solana.PublicKey
	MintWhitelist       solana.PublicKey
}

// InitPool validates params, derives the pool's custody accounts, and
// persists a fresh Pool record with CollectedTotal = 0.
func InitPool(store *AccountStore, programID solana.PublicKey, accs InitPoolAccounts, p InitPoolParams, signed signedFunc) error {
	if p.PriceDenominator == 0 {
		return NewError(ErrArithmeticOverflow)
	}
	if p.GoalMin == 0 || p.GoalMax == 0 || p.GoalMin > p.GoalMax {
		return NewError(ErrAmountOutOfRange)
	}
	if p.AmountMin == 0 || p.AmountMax == 0 || p.AmountMin > p.AmountMax || p.AmountMax > p.GoalMax {
		return NewError(ErrAmountOutOfRange)
	}
	if p.TimeStart >= p.TimeFinish {
		return NewError(ErrInvalidPoolState)
	}
	if p.TimeStart < store.Now() {
		return NewError(ErrInvalidPoolState)
	}

	marketAcct := store.Get(accs.Market)
	if Discriminant(marketAcct.Data) != DiscMarket {
		return NewError(ErrInvalidAccountData)
	}
	market, err := DecodeMarket(marketAcct.Data)
	if err != nil {
		return err
	}
	if !market.Owner.Equals(accs.MarketOwner) {
		return NewError(ErrInvalidAccountAddress)
	}
	if !signed(accs.MarketOwner) {
		return NewError(ErrMissingSignature)
	}

	poolAcct := store.Get(accs.Pool)
	if Discriminant(poolAcct.Data) != DiscUninitialized {
		return NewError(ErrAlreadyInitialized)
	}

	authority, bump, err := DerivePoolAuthority(programID, accs.Market, accs.Pool)
	if err != nil {
		return err
	}
	if err := VerifyAddress(programID, accs.Market, accs.Pool, RoleCollection, accs.AccountCollection); err != nil {
		return err
	}
	if err := VerifyAddress(programID, accs.Market, accs.Pool, RoleDistribution, accs.AccountDistribution); err != nil {
		return err
	}
	if err := VerifyAddress(programID, accs.Market, accs.Pool, RoleMint, accs.MintPool); err != nil {
		return err
	}
	hasWhitelist := p.HasWhitelist
	if hasWhitelist {
		if err := VerifyAddress(programID, accs.Market, accs.Pool, RoleWhitelist, accs.MintWhitelist); err != nil {
			return err
		}
	}

	tokens := store.Tokens()
	if err := tokens.InitMint(accs.MintPool, authority); err != nil {
		return err
	}
	if err := tokens.InitAccount(accs.AccountCollection, accs.MintCollection, authority); err != nil {
		return err
	}
	if err := tokens.InitAccount(accs.AccountDistribution, accs.MintDistribution, authority); err != nil {
		return err
	}
	mintWhitelist := ZeroKey
	if hasWhitelist {
		if err := tokens.InitMint(accs.MintWhitelist, authority); err != nil {
			return err
		}
		mintWhitelist = accs.MintWhitelist
	}

	pool := &Pool{
		Version:             PoolVersion,
		Market:               accs.Market,
		Owner:                accs.MarketOwner,
		MintCollection:       accs.MintCollection,
		MintDistribution:     accs.MintDistribution,
		AccountCollection:    accs.AccountCollection,
		AccountDistribution:  accs.AccountDistribution,
		MintPool:             accs.MintPool,
		HasWhitelist:         hasWhitelist,
		MintWhitelist:        mintWhitelist,
		IsKYC:                p.IsKYC,
		PriceNumerator:       p.PriceNumerator,
		PriceDenominator:     p.PriceDenominator,
		GoalMin:              p.GoalMin,
		GoalMax:              p.GoalMax,
		AmountMin:            p.AmountMin,
		AmountMax:            p.AmountMax,
		TimeStart:            p.TimeStart,
		TimeFinish:           p.TimeFinish,
		CollectedTotal:       0,
		Authority:            authority,
		AuthorityBump:        bump,
	}

	data, err := EncodePool(pool)
	if err != nil {
		return err
	}
	if !store.rentExemptFor(poolAcct.Lamports, len(data)) {
		return NewError(ErrNotRentExempt)
	}
	poolAcct.Data = data
	store.Put(accs.Pool, poolAcct)
	return nil
}

// ParticipateAccounts binds the positional accounts for a Participate
// instruction.
type ParticipateAccounts struct {
	Market           solana.PublicKey
	Pool             solana.PublicKey
	UserWallet       solana.PublicKey
	UserAccountFrom  solana.PublicKey
	UserAccountTo    solana.PublicKey
	MarketUserKyc    solana.PublicKey
	AccountWhitelist solana.PublicKey
	MintWhitelist    solana.PublicKey
}

// Participate validates and executes a user's purchase: KYC check (if
// gated), whitelist burn (if gated), collected-token transfer, pool-token
// mint, and CollectedTotal update.
func Participate(store *AccountStore, programID solana.PublicKey, accs ParticipateAccounts, p ParticipateParams, signed signedFunc) error {
	poolAcct := store.Get(accs.Pool)
	if Discriminant(poolAcct.Data) != DiscPool {
		return NewError(ErrInvalidAccountData)
	}
	pool, err := DecodePool(poolAcct.Data)
	if err != nil {
		return err
	}
	if !pool.Market.Equals(accs.Market) {
		return NewError(ErrInvalidAccountAddress)
	}
	if !signed(accs.UserWallet) {
		return NewError(ErrMissingSignature)
	}

	if Stage(pool, store.Now()) != StageActive {
		return NewError(ErrInvalidPoolState)
	}

	if p.Amount < pool.AmountMin || p.Amount > pool.AmountMax {
		return NewError(ErrAmountOutOfRange)
	}
	newTotal, err := CheckedAdd(pool.CollectedTotal, p.Amount)
	if err != nil {
		return err
	}
	if newTotal > pool.GoalMax {
		return NewError(ErrGoalExceeded)
	}

	tokens := store.Tokens()

	// KYC is checked before the whitelist token is burned, matching
	// processor.rs's ordering: a rejected KYC check must never cost the
	// user their whitelist token.
	if pool.IsKYC {
		kycAcct := store.Get(accs.MarketUserKyc)
		if Discriminant(kycAcct.Data) != DiscKyc {
			return NewError(ErrKycRequired)
		}
		kyc, err := DecodeKyc(kycAcct.Data)
		if err != nil {
			return NewError(ErrKycRequired)
		}
		if !kyc.Passed {
			return NewError(ErrKycRequired)
		}
		if kyc.Expiration != 0 && store.Now() >= kyc.Expiration {
			return NewError(ErrKycRequired)
		}
	}

	if pool.HasWhitelist {
		if !pool.MintWhitelist.Equals(accs.MintWhitelist) {
			return NewError(ErrInvalidAccountAddress)
		}
		if err := tokens.Burn(accs.MintWhitelist, accs.AccountWhitelist, accs.UserWallet, WhitelistTokenAmount); err != nil {
			return NewError(ErrWhitelistRequired)
		}
	}

	if err := tokens.Transfer(accs.UserAccountFrom, pool.AccountCollection, accs.UserWallet, p.Amount); err != nil {
		return err
	}
	if err := tokens.MintTo(pool.MintPool, accs.UserAccountTo, pool.Authority, p.Amount); err != nil {
		return err
	}

	pool.CollectedTotal = newTotal
	data, err := EncodePool(pool)
	if err != nil {
		return err
	}
	poolAcct.Data = data
	store.Put(accs.Pool, poolAcct)
	return nil
}

// AddToWhitelistAccounts binds the positional accounts for an
// AddToWhitelist instruction.
type AddToWhitelistAccounts struct {
	Pool             solana.PublicKey
	PoolOwner        solana.PublicKey
	AccountWhitelist solana.PublicKey
	MintWhitelist    solana.PublicKey
}

// AddToWhitelist mints one whitelist token to the user's whitelist account.
// Not idempotent: repeated calls mint repeated tokens, each burned by one
// Participate call, exactly as spec'd.
func AddToWhitelist(store *AccountStore, programID solana.PublicKey, accs AddToWhitelistAccounts, signed signedFunc) error {
	poolAcct := store.Get(accs.Pool)
	if Discriminant(poolAcct.Data) != DiscPool {
		return NewError(ErrInvalidAccountData)
	}
	pool, err := DecodePool(poolAcct.Data)
	if err != nil {
		return err
	}
	if !pool.HasWhitelist {
		return NewError(ErrWhitelistRequired)
	}
	if Stage(pool, store.Now()) != StagePreparing {
		return NewError(ErrInvalidPoolState)
	}
	if !pool.Owner.Equals(accs.PoolOwner) {
		return NewError(ErrInvalidAccountAddress)
	}
	if !signed(accs.PoolOwner) {
		return NewError(ErrMissingSignature)
	}
	if !pool.MintWhitelist.Equals(accs.MintWhitelist) {
		return NewError(ErrInvalidAccountAddress)
	}

	return store.Tokens().MintTo(accs.MintWhitelist, accs.AccountWhitelist, pool.Authority, WhitelistTokenAmount)
}

// ClaimAccounts binds the positional accounts for a Claim instruction.
type ClaimAccounts struct {
	Market        solana.PublicKey
	Pool          solana.PublicKey
	AccountFrom   solana.PublicKey
	UserAuthority solana.PublicKey
	AccountPool   solana.PublicKey
	AccountTo     solana.PublicKey
}

// Claim burns every pool-mint token the caller holds in AccountFrom and
// transfers the corresponding payout: distributed tokens if the pool
// succeeded and the target is AccountDistribution, or a full collected
// refund if it failed and the target is AccountCollection. Any other
// (state, target) combination fails with InvalidClaimTarget.
func Claim(store *AccountStore, programID solana.PublicKey, accs ClaimAccounts, signed signedFunc) error {
	poolAcct := store.Get(accs.Pool)
	if Discriminant(poolAcct.Data) != DiscPool {
		return NewError(ErrInvalidAccountData)
	}
	pool, err := DecodePool(poolAcct.Data)
	if err != nil {
		return err
	}
	if !pool.Market.Equals(accs.Market) {
		return NewError(ErrInvalidAccountAddress)
	}
	if !signed(accs.UserAuthority) {
		return NewError(ErrMissingSignature)
	}

	stage := Stage(pool, store.Now())
	if stage != StageSuccessful && stage != StageFailed {
		return NewError(ErrInvalidPoolState)
	}

	tokens := store.Tokens()
	n, err := tokens.BalanceOf(accs.AccountFrom)
	if err != nil {
		return err
	}
	if err := tokens.Burn(pool.MintPool, accs.AccountFrom, accs.UserAuthority, n); err != nil {
		return err
	}

	switch {
	case stage == StageSuccessful && accs.AccountPool.Equals(pool.AccountDistribution):
		distributed, err := CollectedToDistributed(n, pool.PriceNumerator, pool.PriceDenominator)
		if err != nil {
			return err
		}
		return tokens.Transfer(pool.AccountDistribution, accs.AccountTo, pool.Authority, distributed)

	case stage == StageFailed && accs.AccountPool.Equals(pool.AccountCollection):
		return tokens.Transfer(pool.AccountCollection, accs.AccountTo, pool.Authority, n)

	default:
		return NewError(ErrInvalidClaimTarget)
	}
}

// WithdrawAccounts binds the positional accounts for a Withdraw
// instruction.
type WithdrawAccounts struct {
	Market      solana.PublicKey
	Pool        solana.PublicKey
	PoolOwner   solana.PublicKey
	AccountFrom solana.PublicKey
	AccountTo   solana.PublicKey
}

// Withdraw lets the pool owner drain its own custody accounts once the pool
// has reached a terminal state. A Successful pool may be drained from
// either custody account; a Failed pool may only be drained from
// AccountDistribution (its seed inventory) -- draining AccountCollection
// from a Failed pool fails with RefundReservedForUsers since those funds
// belong to users' Claim refunds.
func Withdraw(store *AccountStore, programID solana.PublicKey, accs WithdrawAccounts, signed signedFunc) error {
	poolAcct := store.Get(accs.Pool)
	if Discriminant(poolAcct.Data) != DiscPool {
		return NewError(ErrInvalidAccountData)
	}
	pool, err := DecodePool(poolAcct.Data)
	if err != nil {
		return err
	}
	if !pool.Market.Equals(accs.Market) {
		return NewError(ErrInvalidAccountAddress)
	}
	if !pool.Owner.Equals(accs.PoolOwner) {
		return NewError(ErrInvalidAccountAddress)
	}
	if !signed(accs.PoolOwner) {
		return NewError(ErrMissingSignature)
	}

	stage := Stage(pool, store.Now())
	if stage != StageSuccessful && stage != StageFailed {
		return NewError(ErrInvalidPoolState)
	}

	switch {
	case accs.AccountFrom.Equals(pool.AccountCollection) && stage == StageFailed:
		return NewError(ErrRefundReservedForUsers)
	case accs.AccountFrom.Equals(pool.AccountCollection):
	case accs.AccountFrom.Equals(pool.AccountDistribution):
	default:
		return NewError(ErrInvalidAccountAddress)
	}

	tokens := store.Tokens()
	amount, err := tokens.BalanceOf(accs.AccountFrom)
	if err != nil {
		return err
	}
	return tokens.Transfer(accs.AccountFrom, accs.AccountTo, pool.Authority, amount)
}

// KycAccounts binds the positional accounts shared by SetKyc and ClearKyc.
type KycAccounts struct {
	Market        solana.PublicKey
	MarketOwner   solana.PublicKey
	UserWallet    solana.PublicKey
	MarketUserKyc solana.PublicKey
}

// SetKyc writes (or overwrites) a Passed KYC record for (market, user),
// grounded on original_source's CreateMarketUserKyc.
func SetKyc(store *AccountStore, programID solana.PublicKey, accs KycAccounts, p SetKycParams, signed signedFunc) error {
	marketAcct := store.Get(accs.Market)
	if Discriminant(marketAcct.Data) != DiscMarket {
		return NewError(ErrInvalidAccountData)
	}
	market, err := DecodeMarket(marketAcct.Data)
	if err != nil {
		return err
	}
	if !market.Owner.Equals(accs.MarketOwner) {
		return NewError(ErrInvalidAccountAddress)
	}
	if !signed(accs.MarketOwner) {
		return NewError(ErrMissingSignature)
	}
	if err := VerifyAddress(programID, accs.Market, accs.UserWallet, RoleKyc, accs.MarketUserKyc); err != nil {
		return err
	}

	data, err := EncodeKyc(&Kyc{Passed: true, Expiration: p.Expiration})
	if err != nil {
		return err
	}
	kycAcct := store.Get(accs.MarketUserKyc)
	if !store.rentExemptFor(kycAcct.Lamports, len(data)) {
		return NewError(ErrNotRentExempt)
	}
	kycAcct.Data = data
	store.Put(accs.MarketUserKyc, kycAcct)
	return nil
}

// ClearKyc revokes a user's KYC record for a market, grounded on
// original_source's DeleteMarketUserKyc. Leaves the account uninitialized
// rather than removed, since AccountStore has no rent-reclaim primitive.
func ClearKyc(store *AccountStore, programID solana.PublicKey, accs KycAccounts, signed signedFunc) error {
	marketAcct := store.Get(accs.Market)
	if Discriminant(marketAcct.Data) != DiscMarket {
		return NewError(ErrInvalidAccountData)
	}
	market, err := DecodeMarket(marketAcct.Data)
	if err != nil {
		return err
	}
	if !market.Owner.Equals(accs.MarketOwner) {
		return NewError(ErrInvalidAccountAddress)
	}
	if !signed(accs.MarketOwner) {
		return NewError(ErrMissingSignature)
	}
	if err := VerifyAddress(programID, accs.Market, accs.UserWallet, RoleKyc, accs.MarketUserKyc); err != nil {
		return err
	}

	kycAcct := store.Get(accs.MarketUserKyc)
	kycAcct.Data = nil
	store.Put(accs.MarketUserKyc, kycAcct)
	return nil
}
