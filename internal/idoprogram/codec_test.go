package idoprogram

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketRoundTrip(t *testing.T) {
	market := &Market{Version: MarketVersion, Owner: solana.NewWallet().PublicKey()}

	data, err := EncodeMarket(market)
	require.NoError(t, err)
	assert.Len(t, data, MarketLen)
	assert.Equal(t, DiscMarket, data[0])

	decoded, err := DecodeMarket(data)
	require.NoError(t, err)
	assert.Equal(t, market, decoded)
}

func TestDecodeMarketRejectsWrongDiscriminant(t *testing.T) {
	data := make([]byte, MarketLen)
	data[0] = DiscPool
	_, err := DecodeMarket(data)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidAccountData, code)
}

func TestDecodeMarketRejectsWrongLength(t *testing.T) {
	_, err := DecodeMarket([]byte{DiscMarket, 1})
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidAccountData, code)
}

func TestPoolRoundTrip(t *testing.T) {
	pool := &Pool{
		Version:             PoolVersion,
		Market:              solana.NewWallet().PublicKey(),
		Owner:               solana.NewWallet().PublicKey(),
		MintCollection:      solana.NewWallet().PublicKey(),
		MintDistribution:    solana.NewWallet().PublicKey(),
		AccountCollection:   solana.NewWallet().PublicKey(),
		AccountDistribution: solana.NewWallet().PublicKey(),
		MintPool:            solana.NewWallet().PublicKey(),
		HasWhitelist:        true,
		MintWhitelist:       solana.NewWallet().PublicKey(),
		IsKYC:                true,
		PriceNumerator:      1,
		PriceDenominator:    2,
		GoalMin:             1_000,
		GoalMax:             10_000,
		AmountMin:           10,
		AmountMax:           5_000,
		TimeStart:           1_700_000_000,
		TimeFinish:          1_700_100_000,
		CollectedTotal:      2_500,
		Authority:           solana.NewWallet().PublicKey(),
		AuthorityBump:       253,
	}

	data, err := EncodePool(pool)
	require.NoError(t, err)
	assert.Len(t, data, PoolLen)
	assert.Equal(t, DiscPool, data[0])

	decoded, err := DecodePool(data)
	require.NoError(t, err)
	assert.Equal(t, pool, decoded)
}

func TestPoolWithoutWhitelistEncodesZeroKey(t *testing.T) {
	pool := &Pool{
		Version: PoolVersion, Market: solana.NewWallet().PublicKey(), Owner: solana.NewWallet().PublicKey(),
		MintCollection: solana.NewWallet().PublicKey(), MintDistribution: solana.NewWallet().PublicKey(),
		AccountCollection: solana.NewWallet().PublicKey(), AccountDistribution: solana.NewWallet().PublicKey(),
		MintPool: solana.NewWallet().PublicKey(), HasWhitelist: false, MintWhitelist: ZeroKey,
		PriceNumerator: 1, PriceDenominator: 1, GoalMin: 1, GoalMax: 2, AmountMin: 1, AmountMax: 2,
		TimeStart: 1, TimeFinish: 2, Authority: solana.NewWallet().PublicKey(),
	}
	data, err := EncodePool(pool)
	require.NoError(t, err)
	decoded, err := DecodePool(data)
	require.NoError(t, err)
	assert.True(t, decoded.MintWhitelist.IsZero())
}

func TestKycRoundTrip(t *testing.T) {
	kyc := &Kyc{Passed: true, Expiration: 1_700_000_000}
	data, err := EncodeKyc(kyc)
	require.NoError(t, err)
	assert.Len(t, data, KycLen)
	assert.Equal(t, DiscKyc, data[0])

	decoded, err := DecodeKyc(data)
	require.NoError(t, err)
	assert.Equal(t, kyc, decoded)
}

func TestDiscriminant(t *testing.T) {
	assert.Equal(t, DiscUninitialized, Discriminant(nil))
	assert.Equal(t, DiscUninitialized, Discriminant([]byte{}))
	assert.Equal(t, DiscMarket, Discriminant([]byte{DiscMarket, 0, 0}))
}
