package idoprogram

import "github.com/gagliardetto/solana-go"

// Dispatch decodes data as an instruction, slices accountKeys into the
// positional roles documented per handler below, and invokes the matching
// handler in handlers.go. It is the single entry point into the program:
// the call runs inside store.Atomic, so every account and token mutation the
// handler makes is rolled back if it returns an error, mirroring
// processor.rs:process_instruction's match-on-account-slice dispatch and
// spec §5's atomic-commit-or-not-at-all semantics.
//
// signers identifies which of accountKeys actually signed the transaction;
// handlers consult it wherever spec §6 requires a signer check.
func Dispatch(store *AccountStore, programID solana.PublicKey, accountKeys []solana.PublicKey, signers map[solana.PublicKey]bool, data []byte) error {
	return store.Atomic(func() error {
		return dispatch(store, programID, accountKeys, signers, data)
	})
}

// dispatch is Dispatch's uncommitted body: decode the instruction, slice
// accountKeys per tag, and invoke the matching handler.
func dispatch(store *AccountStore, programID solana.PublicKey, accountKeys []solana.PublicKey, signers map[solana.PublicKey]bool, data []byte) error {
	instr, err := DecodeInstruction(data)
	if err != nil {
		return err
	}

	signed := func(key solana.PublicKey) bool { return signers[key] }

	switch instr.Tag {
	case TagInitMarket:
		// accounts: market, market_owner
		if len(accountKeys) != 2 {
			return NewError(ErrInvalidAccounts)
		}
		return InitMarket(store, accountKeys[0], accountKeys[1], signed)

	case TagInitPool:
		// accounts: market, pool, market_owner, mint_collection,
		// mint_distribution, account_collection, account_distribution,
		// mint_pool, mint_whitelist
		if len(accountKeys) != 9 {
			return NewError(ErrInvalidAccounts)
		}
		return InitPool(store, programID, InitPoolAccounts{
			Market:              accountKeys[0],
			Pool:                accountKeys[1],
			MarketOwner:         accountKeys[2],
			MintCollection:      accountKeys[3],
			MintDistribution:    accountKeys[4],
			AccountCollection:   accountKeys[5],
			AccountDistribution: accountKeys[6],
			MintPool:            accountKeys[7],
			MintWhitelist:       accountKeys[8],
		}, instr.InitPool, signed)

	case TagParticipate:
		// accounts: market, pool, user_wallet, user_account_from,
		// user_account_to, market_user_kyc, account_whitelist,
		// mint_whitelist
		if len(accountKeys) != 8 {
			return NewError(ErrInvalidAccounts)
		}
		return Participate(store, programID, ParticipateAccounts{
			Market:          accountKeys[0],
			Pool:            accountKeys[1],
			UserWallet:      accountKeys[2],
			UserAccountFrom: accountKeys[3],
			UserAccountTo:   accountKeys[4],
			MarketUserKyc:   accountKeys[5],
			AccountWhitelist: accountKeys[6],
			MintWhitelist:    accountKeys[7],
		}, instr.Participate, signed)

	case TagAddToWhitelist:
		// accounts: pool, pool_owner, account_whitelist, mint_whitelist
		if len(accountKeys) != 4 {
			return NewError(ErrInvalidAccounts)
		}
		return AddToWhitelist(store, programID, AddToWhitelistAccounts{
			Pool:             accountKeys[0],
			PoolOwner:        accountKeys[1],
			AccountWhitelist: accountKeys[2],
			MintWhitelist:    accountKeys[3],
		}, signed)

	case TagClaim:
		// accounts: market, pool, account_from, user_authority, account_pool, account_to
		if len(accountKeys) != 6 {
			return NewError(ErrInvalidAccounts)
		}
		return Claim(store, programID, ClaimAccounts{
			Market:        accountKeys[0],
			Pool:          accountKeys[1],
			AccountFrom:   accountKeys[2],
			UserAuthority: accountKeys[3],
			AccountPool:   accountKeys[4],
			AccountTo:     accountKeys[5],
		}, signed)

	case TagWithdraw:
		// accounts: market, pool, pool_owner, account_from, account_to
		if len(accountKeys) != 5 {
			return NewError(ErrInvalidAccounts)
		}
		return Withdraw(store, programID, WithdrawAccounts{
			Market:      accountKeys[0],
			Pool:        accountKeys[1],
			PoolOwner:   accountKeys[2],
			AccountFrom: accountKeys[3],
			AccountTo:   accountKeys[4],
		}, signed)

	case TagSetKyc:
		// accounts: market, market_owner, user_wallet, market_user_kyc
		if len(accountKeys) != 4 {
			return NewError(ErrInvalidAccounts)
		}
		return SetKyc(store, programID, KycAccounts{
			Market:        accountKeys[0],
			MarketOwner:   accountKeys[1],
			UserWallet:    accountKeys[2],
			MarketUserKyc: accountKeys[3],
		}, instr.SetKyc, signed)

	case TagClearKyc:
		// accounts: market, market_owner, user_wallet, market_user_kyc
		if len(accountKeys) != 4 {
			return NewError(ErrInvalidAccounts)
		}
		return ClearKyc(store, programID, KycAccounts{
			Market:        accountKeys[0],
			MarketOwner:   accountKeys[1],
			UserWallet:    accountKeys[2],
			MarketUserKyc: accountKeys[3],
		}, signed)

	default:
		return NewErrorf(ErrInvalidAccounts, "unknown instruction tag %d", instr.Tag)
	}
}
