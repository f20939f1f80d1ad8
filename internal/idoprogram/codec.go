package idoprogram

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Market is the fixed-layout account record created by InitMarket.
type Market struct {
	Version uint8
	Owner   solana.PublicKey
}

// MarketLen is the encoded size of a Market record: 1 discriminant + 1
// version + 32 owner.
const MarketLen = 1 + 1 + 32

// Pool is the fixed-layout account record created by InitPool and mutated by
// Participate.
type Pool struct {
	Version              uint8
	Market               solana.PublicKey
	Owner                solana.PublicKey
	MintCollection       solana.PublicKey
	MintDistribution     solana.PublicKey
	AccountCollection    solana.PublicKey
	AccountDistribution  solana.PublicKey
	MintPool             solana.PublicKey
	HasWhitelist         bool
	MintWhitelist        solana.PublicKey
	IsKYC                bool
	PriceNumerator       uint64
	PriceDenominator     uint64
	GoalMin              uint64
	GoalMax              uint64
	AmountMin            uint64
	AmountMax            uint64
	TimeStart            int64
	TimeFinish           int64
	CollectedTotal       uint64
	Authority            solana.PublicKey
	AuthorityBump        uint8
}

// PoolLen is the encoded size of a Pool record.
const PoolLen = 1 + // discriminant
	1 + // version
	32 + // market
	32 + // owner
	32 + // mint collection
	32 + // mint distribution
	32 + // account collection
	32 + // account distribution
	32 + // mint pool
	1 + // has whitelist
	32 + // mint whitelist
	1 + // is kyc
	8 + 8 + // price num/den
	8 + 8 + // goal min/max
	8 + 8 + // amount min/max
	8 + 8 + // time start/finish
	8 + // collected total
	32 + // authority
	1 // authority bump

// Kyc is the fixed-layout account record for a single (market, user) KYC
// entry.
type Kyc struct {
	Passed     bool
	Expiration int64
}

// KycLen is the encoded size of a Kyc record.
const KycLen = 1 + 1 + 8

func readPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	b, err := dec.ReadNBytes(32)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

func writePublicKey(enc *bin.Encoder, key solana.PublicKey) error {
	return enc.WriteBytes(key[:], false)
}

// EncodeMarket serializes m with a leading DiscMarket tag.
func EncodeMarket(m *Market) ([]byte, error) {
	buf := make([]byte, 0, MarketLen)
	enc := bin.NewBorshEncoder(&sliceWriter{buf: &buf})
	if err := enc.WriteByte(DiscMarket); err != nil {
		return nil, err
	}
	if err := enc.WriteByte(m.Version); err != nil {
		return nil, err
	}
	if err := writePublicKey(enc, m.Owner); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeMarket deserializes a Market record, requiring the DiscMarket tag.
func DecodeMarket(data []byte) (*Market, error) {
	if len(data) != MarketLen {
		return nil, NewErrorf(ErrInvalidAccountData, "market: expected %d bytes, got %d", MarketLen, len(data))
	}
	dec := bin.NewBorshDecoder(data)
	tag, err := dec.ReadByte()
	if err != nil {
		return nil, NewError(ErrInvalidAccountData)
	}
	if tag != DiscMarket {
		return nil, NewErrorf(ErrInvalidAccountData, "market: unexpected discriminant %d", tag)
	}
	version, err := dec.ReadByte()
	if err != nil {
		return nil, NewError(ErrInvalidAccountData)
	}
	owner, err := readPublicKey(dec)
	if err != nil {
		return nil, NewError(ErrInvalidAccountData)
	}
	return &Market{Version: version, Owner: owner}, nil
}

// EncodePool serializes p with a leading DiscPool tag.
func EncodePool(p *Pool) ([]byte, error) {
	buf := make([]byte, 0, PoolLen)
	w := &sliceWriter{buf: &buf}
	enc := bin.NewBorshEncoder(w)

	write := func(v any) error {
		switch x := v.(type) {
		case byte:
			return enc.WriteByte(x)
		case bool:
			return enc.WriteBool(x)
		case uint64:
			return enc.WriteUint64(x, bin.LE)
		case int64:
			return enc.WriteInt64(x, bin.LE)
		case solana.PublicKey:
			return writePublicKey(enc, x)
		}
		return NewError(ErrInvalidAccountData)
	}

	fields := []any{
		DiscPool,
		p.Version,
		p.Market,
		p.Owner,
		p.MintCollection,
		p.MintDistribution,
		p.AccountCollection,
		p.AccountDistribution,
		p.MintPool,
		p.HasWhitelist,
		p.MintWhitelist,
		p.IsKYC,
		p.PriceNumerator,
		p.PriceDenominator,
		p.GoalMin,
		p.GoalMax,
		p.AmountMin,
		p.AmountMax,
		p.TimeStart,
		p.TimeFinish,
		p.CollectedTotal,
		p.Authority,
		p.AuthorityBump,
	}
	for _, f := range fields {
		if err := write(f); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// DecodePool deserializes a Pool record, requiring the DiscPool tag.
func DecodePool(data []byte) (*Pool, error) {
	if len(data) != PoolLen {
		return nil, NewErrorf(ErrInvalidAccountData, "pool: expected %d bytes, got %d", PoolLen, len(data))
	}
	dec := bin.NewBorshDecoder(data)

	tag, err := dec.ReadByte()
	if err != nil || tag != DiscPool {
		return nil, NewErrorf(ErrInvalidAccountData, "pool: unexpected discriminant")
	}

	p := &Pool{}
	readErr := func(err error) bool { return err != nil }

	if p.Version, err = dec.ReadByte(); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.Market, err = readPublicKey(dec); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.Owner, err = readPublicKey(dec); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.MintCollection, err = readPublicKey(dec); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.MintDistribution, err = readPublicKey(dec); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.AccountCollection, err = readPublicKey(dec); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.AccountDistribution, err = readPublicKey(dec); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.MintPool, err = readPublicKey(dec); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.HasWhitelist, err = dec.ReadBool(); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.MintWhitelist, err = readPublicKey(dec); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.IsKYC, err = dec.ReadBool(); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.PriceNumerator, err = dec.ReadUint64(bin.LE); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.PriceDenominator, err = dec.ReadUint64(bin.LE); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.GoalMin, err = dec.ReadUint64(bin.LE); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.GoalMax, err = dec.ReadUint64(bin.LE); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.AmountMin, err = dec.ReadUint64(bin.LE); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.AmountMax, err = dec.ReadUint64(bin.LE); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.TimeStart, err = dec.ReadInt64(bin.LE); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.TimeFinish, err = dec.ReadInt64(bin.LE); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.CollectedTotal, err = dec.ReadUint64(bin.LE); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.Authority, err = readPublicKey(dec); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	if p.AuthorityBump, err = dec.ReadByte(); readErr(err) {
		return nil, NewError(ErrInvalidAccountData)
	}
	return p, nil
}

// EncodeKyc serializes k with a leading DiscKyc tag.
func EncodeKyc(k *Kyc) ([]byte, error) {
	buf := make([]byte, 0, KycLen)
	enc := bin.NewBorshEncoder(&sliceWriter{buf: &buf})
	if err := enc.WriteByte(DiscKyc); err != nil {
		return nil, err
	}
	if err := enc.WriteBool(k.Passed); err != nil {
		return nil, err
	}
	if err := enc.WriteInt64(k.Expiration, bin.LE); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeKyc deserializes a Kyc record, requiring the DiscKyc tag.
func DecodeKyc(data []byte) (*Kyc, error) {
	if len(data) != KycLen {
		return nil, NewErrorf(ErrInvalidAccountData, "kyc: expected %d bytes, got %d", KycLen, len(data))
	}
	dec := bin.NewBorshDecoder(data)
	tag, err := dec.ReadByte()
	if err != nil || tag != DiscKyc {
		return nil, NewErrorf(ErrInvalidAccountData, "kyc: unexpected discriminant")
	}
	k := &Kyc{}
	if k.Passed, err = dec.ReadBool(); err != nil {
		return nil, NewError(ErrInvalidAccountData)
	}
	if k.Expiration, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, NewError(ErrInvalidAccountData)
	}
	return k, nil
}

// Discriminant returns the first byte of a raw account blob, or
// DiscUninitialized for an empty one.
func Discriminant(data []byte) byte {
	if len(data) == 0 {
		return DiscUninitialized
	}
	return data[0]
}

// sliceWriter adapts a *[]byte to io.Writer for bin.NewBorshEncoder, which
// wants a stream rather than a preallocated buffer.
type sliceWriter struct {
	buf *[]byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}
