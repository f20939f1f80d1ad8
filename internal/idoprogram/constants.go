// Package idoprogram implements the SolStarter IDO pool state machine: the
// instruction dispatcher, the price/allocation arithmetic, the
// program-derived custody of pool accounts, and the claim/refund/withdraw
// settlement logic.
package idoprogram

import "github.com/gagliardetto/solana-go"

// Role tags used to derive custody account addresses. Frozen per the wire
// format: changing any of these changes every already-derived address.
const (
	RoleCollection   = "collection"
	RoleDistribution = "distribution"
	RoleMint         = "mint"
	RoleWhitelist    = "whitelist"
	RoleAuthority    = "authority"
	RoleKyc          = "kyc"
)

// Instruction tags, one byte, as enumerated in spec §6.
const (
	TagInitMarket      byte = 0
	TagInitPool        byte = 1
	TagParticipate     byte = 2
	TagAddToWhitelist  byte = 3
	TagClaim           byte = 4
	TagWithdraw        byte = 5
	TagSetKyc          byte = 6
	TagClearKyc        byte = 7
)

// WhitelistTokenAmount is the amount minted per AddToWhitelist call and
// burned per Participate call.
const WhitelistTokenAmount uint64 = 1

// Discriminant tags for account-data blobs (state codec, §4.4).
const (
	DiscUninitialized byte = 0
	DiscMarket        byte = 1
	DiscPool          byte = 2
	DiscKyc           byte = 3
)

// ZeroKey is the sentinel written into Pool.MintWhitelist when the pool has
// no whitelist gating.
var ZeroKey = solana.PublicKey{}
