package checkpoint

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const coinTypePrefix = "0x2::coin::Coin<"
const coinTypeSuffix = ">"

// coinBalanceOffset is the byte offset of the little-endian u64 balance
// within a decoded 0x2::coin::Coin<T> payload: a 32-byte UID followed by
// the balance.
const coinBalanceOffset = 32
const coinPayloadMinLen = coinBalanceOffset + 8

// IsCoinType reports whether tag is a 0x2::coin::Coin<T> instantiation and,
// if so, returns the inner coin type T.
func IsCoinType(tag TypeTag) (inner TypeTag, ok bool) {
	s := string(tag)
	if !strings.HasPrefix(s, coinTypePrefix) || !strings.HasSuffix(s, coinTypeSuffix) {
		return "", false
	}
	return TypeTag(s[len(coinTypePrefix) : len(s)-len(coinTypeSuffix)]), true
}

// ExtractedCoin is the result of successfully decoding a coin object.
type ExtractedCoin struct {
	Owner    Owner
	CoinType TypeTag
	Balance  uint64
}

// ExtractCoin decodes obj into an ExtractedCoin if its type tag matches
// 0x2::coin::Coin<T>. If wantDigest is non-nil and disagrees with the
// object's own digest, it returns ErrDigestMismatch — this signals a
// corrupt provider and must be treated as fatal by the caller (spec.md
// §4.3). If the type tag declares a coin but the payload cannot be decoded,
// it returns ErrMalformedCoin, also fatal: a declared coin with an
// undecodable payload is data corruption, not a recoverable condition.
func ExtractCoin(obj Object, wantDigest *ObjectDigest) (ExtractedCoin, error) {
	if wantDigest != nil && *wantDigest != obj.Digest {
		return ExtractedCoin{}, fmt.Errorf("checkpoint: object %s digest %s != expected %s: %w",
			obj.ID, obj.Digest, *wantDigest, ErrDigestMismatch)
	}

	inner, ok := IsCoinType(obj.Type)
	if !ok {
		return ExtractedCoin{}, ErrNotACoin
	}

	if len(obj.Payload) < coinPayloadMinLen {
		return ExtractedCoin{}, fmt.Errorf("checkpoint: object %s declares type %s but payload is %d bytes, need >= %d: %w",
			obj.ID, obj.Type, len(obj.Payload), coinPayloadMinLen, ErrMalformedCoin)
	}

	balance := binary.LittleEndian.Uint64(obj.Payload[coinBalanceOffset : coinBalanceOffset+8])
	return ExtractedCoin{Owner: obj.Owner, CoinType: inner, Balance: balance}, nil
}

// EncodeCoinPayload is the inverse of the decode step ExtractCoin performs;
// it is exported for tests and fixture construction.
func EncodeCoinPayload(uid [32]byte, balance uint64) []byte {
	buf := make([]byte, coinPayloadMinLen)
	copy(buf[:coinBalanceOffset], uid[:])
	binary.LittleEndian.PutUint64(buf[coinBalanceOffset:], balance)
	return buf
}
