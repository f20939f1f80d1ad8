package idoprogram

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_InitMarket(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	market := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	store := NewAccountStore(FixedClock(0), DefaultRentOracle{}, NewLedgerAdapter())
	store.Fund(market, programID, DefaultRentOracle{}.MinimumBalance(MarketLen))

	accountKeys := []solana.PublicKey{market, owner}
	signers := map[solana.PublicKey]bool{owner: true}
	err := Dispatch(store, programID, accountKeys, signers, EncodeTagOnly(TagInitMarket))
	require.NoError(t, err)

	acct := store.Get(market)
	assert.Equal(t, DiscMarket, Discriminant(acct.Data))
}

func TestDispatch_RejectsWrongAccountCount(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	store := NewAccountStore(FixedClock(0), DefaultRentOracle{}, NewLedgerAdapter())

	err := Dispatch(store, programID, []solana.PublicKey{solana.NewWallet().PublicKey()}, nil, EncodeTagOnly(TagInitMarket))
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidAccounts, code)
}

// TestDispatch_RollsBackFailedParticipate drives Participate entirely
// through Dispatch on a whitelist+KYC-gated pool and confirms a KYC failure
// leaves every account — pool, whitelist balance — exactly as it found it,
// per Atomic's commit-or-rollback contract.
func TestDispatch_RollsBackFailedParticipate(t *testing.T) {
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

	accountKeys := []solana.PublicKey{
		h.market, h.pool, user, accountFrom, accountTo,
		kycRecord, accountWhitelist, mintWhitelist,
	}
	signers := map[solana.PublicKey]bool{user: true}
	data := EncodeParticipate(50)

	whitelistBefore, err := h.tokens.BalanceOf(accountWhitelist)
	require.NoError(t, err)
	poolAcctBefore := append([]byte(nil), h.store.Get(h.pool).Data...)

	err = Dispatch(h.store, h.programID, accountKeys, signers, data)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrKycRequired, code)

	whitelistAfter, err := h.tokens.BalanceOf(accountWhitelist)
	require.NoError(t, err)
	assert.Equal(t, whitelistBefore, whitelistAfter)
	assert.Equal(t, poolAcctBefore, h.store.Get(h.pool).Data)

	// Granting KYC lets the identical Dispatch call succeed.
	h.store.Fund(kycRecord, h.programID, DefaultRentOracle{}.MinimumBalance(KycLen))
	require.NoError(t, SetKyc(h.store, h.programID, KycAccounts{
		Market: h.market, MarketOwner: h.marketOwner, UserWallet: user, MarketUserKyc: kycRecord,
	}, SetKycParams{Expiration: 0}, always))

	require.NoError(t, Dispatch(h.store, h.programID, accountKeys, signers, data))
}
