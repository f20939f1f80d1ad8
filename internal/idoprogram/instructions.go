package idoprogram

import (
	bin "github.com/gagliardetto/binary"
)

// Instruction is the decoded form of an instruction's wire bytes: a tag
// plus its typed parameters. Exactly one of the Params fields is meaningful,
// selected by Tag.
type Instruction struct {
	Tag byte

	InitPool    InitPoolParams
	Participate ParticipateParams
	SetKyc      SetKycParams
}

// InitPoolParams is InitPool's trailing wire payload: eight u64s plus two
// booleans (time_start/time_finish are unix seconds carried as u64 on the
// wire and reinterpreted as int64 once decoded).
type InitPoolParams struct {
	PriceNumerator   uint64
	PriceDenominator uint64
	GoalMin          uint64
	GoalMax          uint64
	AmountMin        uint64
	AmountMax        uint64
	TimeStart        int64
	TimeFinish       int64
	HasWhitelist     bool
	IsKYC            bool
}

// ParticipateParams is Participate's trailing wire payload: one u64.
type ParticipateParams struct {
	Amount uint64
}

// SetKycParams is SetKyc's trailing wire payload: one i64 expiration
// (0 meaning never expires), grounded on
// original_source/.../instruction.rs's CreateMarketUserKyc.
type SetKycParams struct {
	Expiration int64
}

// DecodeInstruction parses the one-byte tag plus little-endian packed
// parameters described in spec §6. InitMarket, AddToWhitelist, Claim,
// Withdraw, and ClearKyc carry no trailing bytes.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, NewError(ErrInvalidAccountData)
	}
	tag := data[0]
	rest := data[1:]
	dec := bin.NewBorshDecoder(rest)

	switch tag {
	case TagInitMarket, TagAddToWhitelist, TagClaim, TagWithdraw, TagClearKyc:
		if len(rest) != 0 {
			return Instruction{}, NewErrorf(ErrInvalidAccountData, "tag %d takes no parameters", tag)
		}
		return Instruction{Tag: tag}, nil

	case TagInitPool:
		var p InitPoolParams
		var err error
		if p.PriceNumerator, err = dec.ReadUint64(bin.LE); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		if p.PriceDenominator, err = dec.ReadUint64(bin.LE); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		if p.GoalMin, err = dec.ReadUint64(bin.LE); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		if p.GoalMax, err = dec.ReadUint64(bin.LE); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		if p.AmountMin, err = dec.ReadUint64(bin.LE); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		if p.AmountMax, err = dec.ReadUint64(bin.LE); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		if p.TimeStart, err = dec.ReadInt64(bin.LE); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		if p.TimeFinish, err = dec.ReadInt64(bin.LE); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		if p.HasWhitelist, err = dec.ReadBool(); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		if p.IsKYC, err = dec.ReadBool(); err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		return Instruction{Tag: tag, InitPool: p}, nil

	case TagParticipate:
		var p ParticipateParams
		amt, err := dec.ReadUint64(bin.LE)
		if err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		p.Amount = amt
		return Instruction{Tag: tag, Participate: p}, nil

	case TagSetKyc:
		exp, err := dec.ReadInt64(bin.LE)
		if err != nil {
			return Instruction{}, NewError(ErrInvalidAccountData)
		}
		return Instruction{Tag: tag, SetKyc: SetKycParams{Expiration: exp}}, nil

	default:
		return Instruction{}, NewErrorf(ErrInvalidAccounts, "unknown instruction tag %d", tag)
	}
}

// EncodeInitPool builds the wire bytes for an InitPool instruction, used by
// the off-chain client to assemble transactions.
func EncodeInitPool(p InitPoolParams) []byte {
	buf := make([]byte, 0, 1+8*6+8*2+2)
	w := &sliceWriter{buf: &buf}
	enc := bin.NewBorshEncoder(w)
	_ = enc.WriteByte(TagInitPool)
	_ = enc.WriteUint64(p.PriceNumerator, bin.LE)
	_ = enc.WriteUint64(p.PriceDenominator, bin.LE)
	_ = enc.WriteUint64(p.GoalMin, bin.LE)
	_ = enc.WriteUint64(p.GoalMax, bin.LE)
	_ = enc.WriteUint64(p.AmountMin, bin.LE)
	_ = enc.WriteUint64(p.AmountMax, bin.LE)
	_ = enc.WriteInt64(p.TimeStart, bin.LE)
	_ = enc.WriteInt64(p.TimeFinish, bin.LE)
	_ = enc.WriteBool(p.HasWhitelist)
	_ = enc.WriteBool(p.IsKYC)
	return buf
}

// EncodeParticipate builds the wire bytes for a Participate instruction.
func EncodeParticipate(amount uint64) []byte {
	buf := []byte{TagParticipate}
	w := &sliceWriter{buf: &buf}
	enc := bin.NewBorshEncoder(w)
	_ = enc.WriteUint64(amount, bin.LE)
	return buf
}

// EncodeSetKyc builds the wire bytes for a SetKyc instruction.
func EncodeSetKyc(expiration int64) []byte {
	buf := []byte{TagSetKyc}
	w := &sliceWriter{buf: &buf}
	enc := bin.NewBorshEncoder(w)
	_ = enc.WriteInt64(expiration, bin.LE)
	return buf
}

// EncodeTagOnly builds the wire bytes for an instruction with no trailing
// parameters (InitMarket, AddToWhitelist, Claim, Withdraw, ClearKyc).
func EncodeTagOnly(tag byte) []byte {
	return []byte{tag}
}
