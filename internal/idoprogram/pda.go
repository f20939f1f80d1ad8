package idoprogram

import "github.com/gagliardetto/solana-go"

// DeriveCustodyAddress derives the program address that custodies one of a
// pool's token accounts (collection, distribution, mint, or whitelist mint).
// The seed layout is market ‖ pool ‖ role, mirroring how the teacher derives
// per-envelope PDAs from a fixed seed plus a role suffix.
func DeriveCustodyAddress(programID, market, pool solana.PublicKey, role string) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		market[:],
		pool[:],
		[]byte(role),
	}
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, NewErrorf(ErrInvalidAccountAddress, "derive custody address for role %q: %v", role, err)
	}
	return addr, bump, nil
}

// DerivePoolAuthority derives the PDA that signs CPI transfers out of the
// pool's custody accounts. It is the address recorded as Pool.Authority and
// must be re-derived (not merely loaded) at Dispatch time so a forged
// Authority field can never be accepted.
func DerivePoolAuthority(programID, market, pool solana.PublicKey) (solana.PublicKey, uint8, error) {
	return DeriveCustodyAddress(programID, market, pool, RoleAuthority)
}

// DeriveKycRecord derives the PDA that stores a single user's KYC record for
// a market: market ‖ user ‖ "kyc". One record per (market, user) pair.
func DeriveKycRecord(programID, market, user solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		market[:],
		user[:],
		[]byte(RoleKyc),
	}
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, NewErrorf(ErrInvalidAccountAddress, "derive kyc record: %v", err)
	}
	return addr, bump, nil
}

// VerifyAddress re-derives a custody address for role and confirms it
// matches got, returning ErrInvalidAccountAddress on mismatch. Every handler
// calls this before trusting an account passed in by a caller.
func VerifyAddress(programID, market, pool solana.PublicKey, role string, got solana.PublicKey) error {
	want, _, err := DeriveCustodyAddress(programID, market, pool, role)
	if err != nil {
		return err
	}
	if !want.Equals(got) {
		return NewErrorf(ErrInvalidAccountAddress, "role %q: expected %s, got %s", role, want, got)
	}
	return nil
}
