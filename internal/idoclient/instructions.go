package idoclient

import (
	"github.com/gagliardetto/solana-go"

	"solstarter/internal/idoprogram"
)

// BuildInitMarket builds the InitMarket instruction. marketOwner must sign.
func BuildInitMarket(programID, market, marketOwner solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(market).WRITE(),
			solana.Meta(marketOwner).WRITE().SIGNER(),
		},
		idoprogram.EncodeTagOnly(idoprogram.TagInitMarket),
	)
}

// InitPoolAddresses bundles the PDAs BuildInitPool derives so callers can
// pre-fund/allocate them before submitting the instruction.
type InitPoolAddresses struct {
	AccountCollection   solana.PublicKey
	AccountDistribution solana.PublicKey
	MintPool            solana.PublicKey
	MintWhitelist       solana.PublicKey
	Authority           solana.PublicKey
}

// DeriveInitPoolAddresses computes every address InitPool needs, so the
// caller can create and fund them through the system/token programs before
// submitting InitPool itself.
func DeriveInitPoolAddresses(programID, market, pool solana.PublicKey, hasWhitelist bool) (InitPoolAddresses, error) {
	var addrs InitPoolAddresses
	var err error

	if addrs.AccountCollection, _, err = idoprogram.DeriveCustodyAddress(programID, market, pool, idoprogram.RoleCollection); err != nil {
		return addrs, err
	}
	if addrs.AccountDistribution, _, err = idoprogram.DeriveCustodyAddress(programID, market, pool, idoprogram.RoleDistribution); err != nil {
		return addrs, err
	}
	if addrs.MintPool, _, err = idoprogram.DeriveCustodyAddress(programID, market, pool, idoprogram.RoleMint); err != nil {
		return addrs, err
	}
	if addrs.Authority, _, err = idoprogram.DerivePoolAuthority(programID, market, pool); err != nil {
		return addrs, err
	}
	if hasWhitelist {
		if addrs.MintWhitelist, _, err = idoprogram.DeriveCustodyAddress(programID, market, pool, idoprogram.RoleWhitelist); err != nil {
			return addrs, err
		}
	} else {
		addrs.MintWhitelist = idoprogram.ZeroKey
	}
	return addrs, nil
}

// BuildInitPool builds the InitPool instruction from already-derived
// addresses and typed params.
func BuildInitPool(programID, market, pool, marketOwner, mintCollection, mintDistribution solana.PublicKey, addrs InitPoolAddresses, p idoprogram.InitPoolParams) solana.Instruction {
	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(market),
			solana.Meta(pool).WRITE(),
			solana.Meta(marketOwner).WRITE().SIGNER(),
			solana.Meta(mintCollection),
			solana.Meta(mintDistribution),
			solana.Meta(addrs.AccountCollection).WRITE(),
			solana.Meta(addrs.AccountDistribution).WRITE(),
			solana.Meta(addrs.MintPool).WRITE(),
			solana.Meta(addrs.MintWhitelist).WRITE(),
		},
		idoprogram.EncodeInitPool(p),
	)
}

// BuildParticipate builds the Participate instruction. userWallet must
// sign. accountWhitelist/mintWhitelist may be the zero key for pools
// without whitelist gating.
func BuildParticipate(programID, market, pool, userWallet, userAccountFrom, userAccountTo, marketUserKyc, accountWhitelist, mintWhitelist solana.PublicKey, amount uint64) solana.Instruction {
	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(market),
			solana.Meta(pool).WRITE(),
			solana.Meta(userWallet).SIGNER(),
			solana.Meta(userAccountFrom).WRITE(),
			solana.Meta(userAccountTo).WRITE(),
			solana.Meta(marketUserKyc),
			solana.Meta(accountWhitelist).WRITE(),
			solana.Meta(mintWhitelist).WRITE(),
		},
		idoprogram.EncodeParticipate(amount),
	)
}

// BuildAddToWhitelist builds the AddToWhitelist instruction. poolOwner must
// sign.
func BuildAddToWhitelist(programID, pool, poolOwner, accountWhitelist, mintWhitelist solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(pool),
			solana.Meta(poolOwner).SIGNER(),
			solana.Meta(accountWhitelist).WRITE(),
			solana.Meta(mintWhitelist).WRITE(),
		},
		idoprogram.EncodeTagOnly(idoprogram.TagAddToWhitelist),
	)
}

// BuildClaim builds the Claim instruction. userAuthority must sign and own
// accountFrom.
func BuildClaim(programID, market, pool, accountFrom, userAuthority, accountPool, accountTo solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(market),
			solana.Meta(pool),
			solana.Meta(accountFrom).WRITE(),
			solana.Meta(userAuthority).SIGNER(),
			solana.Meta(accountPool).WRITE(),
			solana.Meta(accountTo).WRITE(),
		},
		idoprogram.EncodeTagOnly(idoprogram.TagClaim),
	)
}

// BuildWithdraw builds the Withdraw instruction. poolOwner must sign.
func BuildWithdraw(programID, market, pool, poolOwner, accountFrom, accountTo solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(market),
			solana.Meta(pool),
			solana.Meta(poolOwner).SIGNER(),
			solana.Meta(accountFrom).WRITE(),
			solana.Meta(accountTo).WRITE(),
		},
		idoprogram.EncodeTagOnly(idoprogram.TagWithdraw),
	)
}

// BuildSetKyc builds the SetKyc instruction. marketOwner must sign.
func BuildSetKyc(programID, market, marketOwner, userWallet, marketUserKyc solana.PublicKey, expiration int64) solana.Instruction {
	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(market),
			solana.Meta(marketOwner).SIGNER(),
			solana.Meta(userWallet),
			solana.Meta(marketUserKyc).WRITE(),
		},
		idoprogram.EncodeSetKyc(expiration),
	)
}

// BuildClearKyc builds the ClearKyc instruction. marketOwner must sign.
func BuildClearKyc(programID, market, marketOwner, userWallet, marketUserKyc solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(market),
			solana.Meta(marketOwner).SIGNER(),
			solana.Meta(userWallet),
			solana.Meta(marketUserKyc).WRITE(),
		},
		idoprogram.EncodeTagOnly(idoprogram.TagClearKyc),
	)
}
