package checkpoint

import (
	"errors"
	"testing"
)

func TestIsCoinType(t *testing.T) {
	inner, ok := IsCoinType("0x2::coin::Coin<0x2::sui::SUI>")
	if !ok || inner != "0x2::sui::SUI" {
		t.Fatalf("expected inner type SUI, got %q ok=%v", inner, ok)
	}
	if _, ok := IsCoinType("0x2::sui::SUI"); ok {
		t.Fatal("non-coin type tag must not match")
	}
}

func TestExtractCoinSuccess(t *testing.T) {
	var uid [32]byte
	uid[0] = 7
	owner := AddressOwner(Address{1})

	obj := Object{
		ID:      ObjectID(uid),
		Digest:  ObjectDigest{9},
		Owner:   owner,
		Type:    "0x2::coin::Coin<0x2::sui::SUI>",
		Payload: EncodeCoinPayload(uid, 1234),
	}

	got, err := ExtractCoin(obj, nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Balance != 1234 || got.CoinType != "0x2::sui::SUI" || !got.Owner.Equal(owner) {
		t.Fatalf("unexpected extracted coin: %+v", got)
	}
}

func TestExtractCoinDigestMismatch(t *testing.T) {
	obj := Object{
		Digest:  ObjectDigest{1},
		Type:    "0x2::coin::Coin<0x2::sui::SUI>",
		Payload: EncodeCoinPayload([32]byte{}, 1),
	}
	want := ObjectDigest{2}
	_, err := ExtractCoin(obj, &want)
	if !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("expected ErrDigestMismatch, got %v", err)
	}
}

func TestExtractCoinNotACoin(t *testing.T) {
	obj := Object{Type: "0x2::sui::SUI"}
	_, err := ExtractCoin(obj, nil)
	if !errors.Is(err, ErrNotACoin) {
		t.Fatalf("expected ErrNotACoin, got %v", err)
	}
}

func TestExtractCoinMalformedPayload(t *testing.T) {
	obj := Object{
		Type:    "0x2::coin::Coin<0x2::sui::SUI>",
		Payload: []byte{1, 2, 3},
	}
	_, err := ExtractCoin(obj, nil)
	if !errors.Is(err, ErrMalformedCoin) {
		t.Fatalf("expected ErrMalformedCoin, got %v", err)
	}
}
