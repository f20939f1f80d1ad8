package idoprogram

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness bundles a fresh engine plus the identities a scenario test needs;
// it mirrors the scaffolding original_source's processor.rs tests build
// around a fake ProgramTest, generalized to this package's in-memory store.
type harness struct {
	t                *testing.T
	store            *AccountStore
	tokens           *LedgerAdapter
	programID        solana.PublicKey
	market           solana.PublicKey
	marketOwner      solana.PublicKey
	pool             solana.PublicKey
	mintCollection   solana.PublicKey
	mintDistribution solana.PublicKey
	authority        solana.PublicKey
}

func newHarness(t *testing.T, now int64) *harness {
	h := &harness{
		t:                t,
		programID:        solana.NewWallet().PublicKey(),
		market:           solana.NewWallet().PublicKey(),
		marketOwner:      solana.NewWallet().PublicKey(),
		pool:             solana.NewWallet().PublicKey(),
		mintCollection:   solana.NewWallet().PublicKey(),
		mintDistribution: solana.NewWallet().PublicKey(),
	}
	h.tokens = NewLedgerAdapter()
	h.store = NewAccountStore(FixedClock(now), DefaultRentOracle{}, h.tokens)

	always := func(solana.PublicKey) bool { return true }
	h.store.Fund(h.market, h.programID, DefaultRentOracle{}.MinimumBalance(MarketLen))
	require.NoError(t, InitMarket(h.store, h.market, h.marketOwner, always))

	return h
}

// advanceTo rebuilds the store on a new clock reading, carrying the market
// and pool account bytes and the shared token ledger across. AccountStore
// has no mutable clock by design (see accounts.go), so scenario tests that
// span a pool's lifecycle move time forward this way.
func (h *harness) advanceTo(now int64) {
	poolAcct := h.store.Get(h.pool)
	marketAcct := h.store.Get(h.market)
	h.store = NewAccountStore(FixedClock(now), DefaultRentOracle{}, h.tokens)
	h.store.Put(h.market, marketAcct)
	h.store.Put(h.pool, poolAcct)
}

// initPool funds and initializes a pool with the given params, returning
// the derived custody addresses for use by the caller.
func (h *harness) initPool(p InitPoolParams) (accountCollection, accountDistribution, mintPool solana.PublicKey) {
	accountCollection, _, err := DeriveCustodyAddress(h.programID, h.market, h.pool, RoleCollection)
	require.NoError(h.t, err)
	accountDistribution, _, err = DeriveCustodyAddress(h.programID, h.market, h.pool, RoleDistribution)
	require.NoError(h.t, err)
	mintPool, _, err = DeriveCustodyAddress(h.programID, h.market, h.pool, RoleMint)
	require.NoError(h.t, err)
	h.authority, _, err = DerivePoolAuthority(h.programID, h.market, h.pool)
	require.NoError(h.t, err)

	var mintWhitelist solana.PublicKey
	if p.HasWhitelist {
		mintWhitelist, _, err = DeriveCustodyAddress(h.programID, h.market, h.pool, RoleWhitelist)
		require.NoError(h.t, err)
	}

	h.store.Fund(h.pool, h.programID, DefaultRentOracle{}.MinimumBalance(PoolLen))
	always := func(solana.PublicKey) bool { return true }
	accs := InitPoolAccounts{
		Market: h.market, Pool: h.pool, MarketOwner: h.marketOwner,
		MintCollection: h.mintCollection, MintDistribution: h.mintDistribution,
		AccountCollection: accountCollection, AccountDistribution: accountDistribution,
		MintPool: mintPool, MintWhitelist: mintWhitelist,
	}
	require.NoError(h.t, InitPool(h.store, h.programID, accs, p, always))
	return accountCollection, accountDistribution, mintPool
}

// fundUser creates a fresh wallet with a collected-token source account
// (balance units of h.mintCollection) and an empty pool-receipt account.
func (h *harness) fundUser(balance uint64, mintPool solana.PublicKey) (user, accountFrom, accountTo solana.PublicKey) {
	user = solana.NewWallet().PublicKey()
	accountFrom = solana.NewWallet().PublicKey()
	accountTo = solana.NewWallet().PublicKey()

	require.NoError(h.t, h.tokens.InitAccount(accountFrom, h.mintCollection, user))
	require.NoError(h.t, h.tokens.InitAccount(accountTo, mintPool, user))
	if balance > 0 {
		require.NoError(h.t, h.tokens.MintTo(h.mintCollection, accountFrom, h.authority, balance))
	}
	return user, accountFrom, accountTo
}

func TestEndToEnd_SuccessfulSaleCleanRounding(t *testing.T) {
	h := newHarness(t, 1_000)
	_, accountDistribution, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 2,
		GoalMin: 1_000, GoalMax: 2_000,
		AmountMin: 10, AmountMax: 2_000,
		TimeStart: 1_000, TimeFinish: 2_000,
	})
	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	user, accountFrom, accountTo := h.fundUser(2_000, mintPool)
	userDistribution := solana.NewWallet().PublicKey()
	require.NoError(t, h.tokens.InitAccount(userDistribution, h.mintDistribution, user))

	always := func(solana.PublicKey) bool { return true }
	require.NoError(t, Participate(h.store, h.programID, ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: user,
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
	}, ParticipateParams{Amount: 2_000}, always))

	poolAcct := h.store.Get(h.pool)
	pool, err := DecodePool(poolAcct.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000), pool.CollectedTotal)

	h.advanceTo(2_000) // past TimeFinish; GoalMin met -> Successful
	assert.Equal(t, StageSuccessful, Stage(pool, h.store.Now()))

	require.NoError(t, h.tokens.InitMint(h.mintDistribution, h.authority))
	require.NoError(t, h.tokens.MintTo(h.mintDistribution, accountDistribution, h.authority, 1_000))

	require.NoError(t, Claim(h.store, h.programID, ClaimAccounts{
		Market: h.market, Pool: h.pool, AccountFrom: accountTo,
		UserAuthority: user, AccountPool: accountDistribution, AccountTo: userDistribution,
	}, always))

	distributedBalance, err := h.tokens.BalanceOf(userDistribution)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), distributedBalance) // 2000 * 1/2 = 1000, clean

	assert.Equal(t, uint64(0), h.tokens.SupplyOf(mintPool))
}

func TestEndToEnd_SuccessfulSaleCoarseRounding(t *testing.T) {
	h := newHarness(t, 1_000)
	_, accountDistribution, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 3,
		GoalMin: 100, GoalMax: 1_000,
		AmountMin: 10, AmountMax: 1_000,
		TimeStart: 1_000, TimeFinish: 2_000,
	})
	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	user, accountFrom, accountTo := h.fundUser(1_000, mintPool)
	userDistribution := solana.NewWallet().PublicKey()
	require.NoError(t, h.tokens.InitAccount(userDistribution, h.mintDistribution, user))

	always := func(solana.PublicKey) bool { return true }
	require.NoError(t, Participate(h.store, h.programID, ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: user,
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
	}, ParticipateParams{Amount: 1_000}, always))

	h.advanceTo(2_000)
	poolAcct := h.store.Get(h.pool)
	pool, err := DecodePool(poolAcct.Data)
	require.NoError(t, err)
	assert.Equal(t, StageSuccessful, Stage(pool, h.store.Now()))

	require.NoError(t, h.tokens.InitMint(h.mintDistribution, h.authority))
	require.NoError(t, h.tokens.MintTo(h.mintDistribution, accountDistribution, h.authority, 333))

	require.NoError(t, Claim(h.store, h.programID, ClaimAccounts{
		Market: h.market, Pool: h.pool, AccountFrom: accountTo,
		UserAuthority: user, AccountPool: accountDistribution, AccountTo: userDistribution,
	}, always))

	distributedBalance, err := h.tokens.BalanceOf(userDistribution)
	require.NoError(t, err)
	assert.Equal(t, uint64(333), distributedBalance) // floor(1000 * 1/3) = 333
}

func TestEndToEnd_FailedSaleRefund(t *testing.T) {
	h := newHarness(t, 1_000)
	accountCollection, _, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 1,
		GoalMin: 5_000, GoalMax: 10_000,
		AmountMin: 10, AmountMax: 2_000,
		TimeStart: 1_000, TimeFinish: 2_000,
	})
	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	user, accountFrom, accountTo := h.fundUser(1_000, mintPool)

	always := func(solana.PublicKey) bool { return true }
	require.NoError(t, Participate(h.store, h.programID, ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: user,
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
	}, ParticipateParams{Amount: 1_000}, always))

	h.advanceTo(2_000)
	poolAcct := h.store.Get(h.pool)
	pool, err := DecodePool(poolAcct.Data)
	require.NoError(t, err)
	assert.Equal(t, StageFailed, Stage(pool, h.store.Now()))

	require.NoError(t, Claim(h.store, h.programID, ClaimAccounts{
		Market: h.market, Pool: h.pool, AccountFrom: accountTo,
		UserAuthority: user, AccountPool: accountCollection, AccountTo: accountFrom,
	}, always))

	refunded, err := h.tokens.BalanceOf(accountFrom)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), refunded)

	// The owner may not drain AccountCollection from a failed pool: those
	// funds belong to users' refunds.
	err = Withdraw(h.store, h.programID, WithdrawAccounts{
		Market: h.market, Pool: h.pool, PoolOwner: h.marketOwner,
		AccountFrom: accountCollection, AccountTo: h.marketOwner,
	}, always)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrRefundReservedForUsers, code)
}

func TestEndToEnd_SoldOutBeforeFinish(t *testing.T) {
	h := newHarness(t, 1_000)
	_, _, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 1,
		GoalMin: 100, GoalMax: 500,
		AmountMin: 10, AmountMax: 500,
		TimeStart: 1_000, TimeFinish: 10_000,
	})

	poolAcct := h.store.Get(h.pool)
	pool, err := DecodePool(poolAcct.Data)
	require.NoError(t, err)
	pool.CollectedTotal = 500
	data, err := EncodePool(pool)
	require.NoError(t, err)
	poolAcct.Data = data
	h.store.Put(h.pool, poolAcct)

	assert.Equal(t, StageSoldOut, Stage(pool, h.store.Now()))

	always := func(solana.PublicKey) bool { return true }
	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	_, accountFrom, accountTo := h.fundUser(10, mintPool)

	err = Participate(h.store, h.programID, ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: solana.NewWallet().PublicKey(),
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
	}, ParticipateParams{Amount: 10}, always)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidPoolState, code)
}

func TestEndToEnd_WhitelistGating(t *testing.T) {
	h := newHarness(t, 300)
	_, _, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 1,
		GoalMin: 100, GoalMax: 1_000,
		AmountMin: 10, AmountMax: 1_000,
		TimeStart: 400, TimeFinish: 10_000,
		HasWhitelist: true,
	})
	mintWhitelist, _, err := DeriveCustodyAddress(h.programID, h.market, h.pool, RoleWhitelist)
	require.NoError(t, err)

	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	user, accountFrom, accountTo := h.fundUser(200, mintPool)
	accountWhitelist := solana.NewWallet().PublicKey()
	require.NoError(t, h.tokens.InitAccount(accountWhitelist, mintWhitelist, user))

	always := func(solana.PublicKey) bool { return true }

	// While the pool is still Preparing, the owner issues one whitelist
	// token to the user.
	require.NoError(t, AddToWhitelist(h.store, h.programID, AddToWhitelistAccounts{
		Pool: h.pool, PoolOwner: h.marketOwner,
		AccountWhitelist: accountWhitelist, MintWhitelist: mintWhitelist,
	}, always))

	h.advanceTo(500) // now inside [TimeStart, TimeFinish): Active

	participateArgs := ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: user,
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
		AccountWhitelist: accountWhitelist, MintWhitelist: mintWhitelist,
	}
	require.NoError(t, Participate(h.store, h.programID, participateArgs, ParticipateParams{Amount: 50}, always))

	// The whitelist token was consumed: a second Participate fails.
	err = Participate(h.store, h.programID, participateArgs, ParticipateParams{Amount: 50}, always)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrWhitelistRequired, code)
}

func TestEndToEnd_KycGating(t *testing.T) {
	h := newHarness(t, 500)
	_, _, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 1,
		GoalMin: 100, GoalMax: 1_000,
		AmountMin: 10, AmountMax: 1_000,
		TimeStart: 500, TimeFinish: 10_000,
		IsKYC: true,
	})
	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	user, accountFrom, accountTo := h.fundUser(100, mintPool)

	kycRecord, _, err := DeriveKycRecord(h.programID, h.market, user)
	require.NoError(t, err)

	always := func(solana.PublicKey) bool { return true }
	participateArgs := ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: user,
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
		MarketUserKyc: kycRecord,
	}

	// No KYC record yet.
	err = Participate(h.store, h.programID, participateArgs, ParticipateParams{Amount: 50}, always)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrKycRequired, code)

	h.store.Fund(kycRecord, h.programID, DefaultRentOracle{}.MinimumBalance(KycLen))
	require.NoError(t, SetKyc(h.store, h.programID, KycAccounts{
		Market: h.market, MarketOwner: h.marketOwner, UserWallet: user, MarketUserKyc: kycRecord,
	}, SetKycParams{Expiration: 0}, always))

	require.NoError(t, Participate(h.store, h.programID, participateArgs, ParticipateParams{Amount: 50}, always))

	// Clearing KYC blocks further participation.
	require.NoError(t, ClearKyc(h.store, h.programID, KycAccounts{
		Market: h.market, MarketOwner: h.marketOwner, UserWallet: user, MarketUserKyc: kycRecord,
	}, always))
	err = Participate(h.store, h.programID, participateArgs, ParticipateParams{Amount: 10}, always)
	require.Error(t, err)
	code, ok = CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrKycRequired, code)
}

// TestEndToEnd_WhitelistAndKycCombined exercises a pool gated on both
// whitelist and KYC together: a KYC failure must never burn the user's
// whitelist token, matching processor.rs's KYC-before-whitelist-burn
// ordering.
func TestEndToEnd_WhitelistAndKycCombined(t *testing.T) {
	h := newHarness(t, 300)
	_, _, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 1,
		GoalMin: 100, GoalMax: 1_000,
		AmountMin: 10, AmountMax: 1_000,
		TimeStart: 400, TimeFinish: 10_000,
		HasWhitelist: true,
		IsKYC:        true,
	})
	mintWhitelist, _, err := DeriveCustodyAddress(h.programID, h.market, h.pool, RoleWhitelist)
	require.NoError(t, err)

	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	user, accountFrom, accountTo := h.fundUser(200, mintPool)
	accountWhitelist := solana.NewWallet().PublicKey()
	require.NoError(t, h.tokens.InitAccount(accountWhitelist, mintWhitelist, user))

	kycRecord, _, err := DeriveKycRecord(h.programID, h.market, user)
	require.NoError(t, err)

	always := func(solana.PublicKey) bool { return true }
	require.NoError(t, AddToWhitelist(h.store, h.programID, AddToWhitelistAccounts{
		Pool: h.pool, PoolOwner: h.marketOwner,
		AccountWhitelist: accountWhitelist, MintWhitelist: mintWhitelist,
	}, always))

	h.advanceTo(500) // Active

	participateArgs := ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: user,
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
		MarketUserKyc: kycRecord, AccountWhitelist: accountWhitelist, MintWhitelist: mintWhitelist,
	}

	balanceBefore, err := h.tokens.BalanceOf(accountWhitelist)
	require.NoError(t, err)

	// No KYC record yet: Participate must fail on the KYC check without
	// ever touching the whitelist token.
	err = Participate(h.store, h.programID, participateArgs, ParticipateParams{Amount: 50}, always)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrKycRequired, code)

	balanceAfter, err := h.tokens.BalanceOf(accountWhitelist)
	require.NoError(t, err)
	assert.Equal(t, balanceBefore, balanceAfter, "a rejected KYC check must not burn the whitelist token")

	// Granting KYC lets the same call succeed, consuming the whitelist
	// token exactly once.
	h.store.Fund(kycRecord, h.programID, DefaultRentOracle{}.MinimumBalance(KycLen))
	require.NoError(t, SetKyc(h.store, h.programID, KycAccounts{
		Market: h.market, MarketOwner: h.marketOwner, UserWallet: user, MarketUserKyc: kycRecord,
	}, SetKycParams{Expiration: 0}, always))

	require.NoError(t, Participate(h.store, h.programID, participateArgs, ParticipateParams{Amount: 50}, always))

	balanceSpent, err := h.tokens.BalanceOf(accountWhitelist)
	require.NoError(t, err)
	assert.Equal(t, balanceBefore-WhitelistTokenAmount, balanceSpent)
}

func TestInitMarketRejectsDoubleInit(t *testing.T) {
	h := newHarness(t, 0)
	always := func(solana.PublicKey) bool { return true }
	err := InitMarket(h.store, h.market, h.marketOwner, always)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrAlreadyInitialized, code)
}

func TestInitPoolRejectsDoubleInit(t *testing.T) {
	h := newHarness(t, 0)
	params := InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 1,
		GoalMin: 100, GoalMax: 1_000,
		AmountMin: 10, AmountMax: 1_000,
		TimeStart: 100, TimeFinish: 10_000,
	}
	h.initPool(params)

	accountCollection, _, _ := DeriveCustodyAddress(h.programID, h.market, h.pool, RoleCollection)
	accountDistribution, _, _ := DeriveCustodyAddress(h.programID, h.market, h.pool, RoleDistribution)
	mintPool, _, _ := DeriveCustodyAddress(h.programID, h.market, h.pool, RoleMint)
	always := func(solana.PublicKey) bool { return true }

	err := InitPool(h.store, h.programID, InitPoolAccounts{
		Market: h.market, Pool: h.pool, MarketOwner: h.marketOwner,
		MintCollection: h.mintCollection, MintDistribution: h.mintDistribution,
		AccountCollection: accountCollection, AccountDistribution: accountDistribution,
		MintPool: mintPool,
	}, params, always)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrAlreadyInitialized, code)
}

func TestParticipateRejectsAmountOutOfRange(t *testing.T) {
	h := newHarness(t, 500)
	_, _, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 1,
		GoalMin: 100, GoalMax: 1_000,
		AmountMin: 50, AmountMax: 200,
		TimeStart: 500, TimeFinish: 10_000,
	})
	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	user, accountFrom, accountTo := h.fundUser(1_000, mintPool)

	always := func(solana.PublicKey) bool { return true }
	err := Participate(h.store, h.programID, ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: user,
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
	}, ParticipateParams{Amount: 10}, always)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrAmountOutOfRange, code)
}

func TestParticipateRejectsGoalExceeded(t *testing.T) {
	h := newHarness(t, 500)
	_, _, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 1,
		GoalMin: 100, GoalMax: 150,
		AmountMin: 10, AmountMax: 100,
		TimeStart: 500, TimeFinish: 10_000,
	})
	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	user, accountFrom, accountTo := h.fundUser(1_000, mintPool)

	always := func(solana.PublicKey) bool { return true }
	participateArgs := ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: user,
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
	}
	require.NoError(t, Participate(h.store, h.programID, participateArgs, ParticipateParams{Amount: 100}, always))

	// 100 already collected + 100 more = 200 > GoalMax 150.
	err := Participate(h.store, h.programID, participateArgs, ParticipateParams{Amount: 100}, always)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrGoalExceeded, code)
}

// TestPoolMintSupplyConservation exercises the invariant that pool-mint
// supply always equals the sum of users' outstanding (unclaimed) receipts:
// it rises by the participated amount and falls back to zero once the sole
// participant claims.
func TestPoolMintSupplyConservation(t *testing.T) {
	h := newHarness(t, 1_000)
	_, accountDistribution, mintPool := h.initPool(InitPoolParams{
		PriceNumerator: 1, PriceDenominator: 1,
		GoalMin: 100, GoalMax: 1_000,
		AmountMin: 10, AmountMax: 1_000,
		TimeStart: 1_000, TimeFinish: 2_000,
	})
	require.NoError(t, h.tokens.InitMint(h.mintCollection, h.authority))
	user, accountFrom, accountTo := h.fundUser(300, mintPool)
	userDistribution := solana.NewWallet().PublicKey()
	require.NoError(t, h.tokens.InitAccount(userDistribution, h.mintDistribution, user))

	always := func(solana.PublicKey) bool { return true }
	require.NoError(t, Participate(h.store, h.programID, ParticipateAccounts{
		Market: h.market, Pool: h.pool, UserWallet: user,
		UserAccountFrom: accountFrom, UserAccountTo: accountTo,
	}, ParticipateParams{Amount: 300}, always))

	assert.Equal(t, uint64(300), h.tokens.SupplyOf(mintPool))

	h.advanceTo(2_000)
	require.NoError(t, h.tokens.InitMint(h.mintDistribution, h.authority))
	require.NoError(t, h.tokens.MintTo(h.mintDistribution, accountDistribution, h.authority, 300))

	require.NoError(t, Claim(h.store, h.programID, ClaimAccounts{
		Market: h.market, Pool: h.pool, AccountFrom: accountTo,
		UserAuthority: user, AccountPool: accountDistribution, AccountTo: userDistribution,
	}, always))

	assert.Equal(t, uint64(0), h.tokens.SupplyOf(mintPool))
}
