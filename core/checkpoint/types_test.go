package checkpoint

import "testing"

func TestObjectIDRoundTrip(t *testing.T) {
	var id ObjectID
	id[0] = 0xAB
	id[31] = 0xCD

	s := id.String()
	if s[:2] != "0x" {
		t.Fatalf("expected 0x prefix, got %q", s)
	}
	if len(s) != 66 {
		t.Fatalf("expected 66 chars, got %d (%q)", len(s), s)
	}

	got, err := ObjectIDFromHex(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != id {
		t.Fatalf("round trip mismatch: got %v want %v", got, id)
	}

	if _, err := ObjectIDFromHex("0xdead"); err == nil {
		t.Fatal("expected error for short hex")
	}
	if _, err := ObjectIDFromHex("zz"); err == nil {
		t.Fatal("expected error for non-hex input")
	}
}

func TestObjectIDFromHexWithoutPrefix(t *testing.T) {
	var id ObjectID
	id[5] = 0x42
	got, err := ObjectIDFromHex(id.String()[2:])
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != id {
		t.Fatalf("mismatch: got %v want %v", got, id)
	}
}

func TestOwnerGetAddress(t *testing.T) {
	var a Address
	a[0] = 1

	owner := AddressOwner(a)
	got, ok := owner.GetAddress()
	if !ok || got != a {
		t.Fatalf("expected address owner to resolve, got %v %v", got, ok)
	}

	if _, ok := ObjectOwner(ObjectID{}).GetAddress(); ok {
		t.Fatal("object owner must not resolve as an address")
	}
	if _, ok := SharedOwner(3).GetAddress(); ok {
		t.Fatal("shared owner must not resolve as an address")
	}
	if _, ok := ImmutableOwner().GetAddress(); ok {
		t.Fatal("immutable owner must not resolve as an address")
	}
}

func TestOwnerEqual(t *testing.T) {
	var a, b Address
	a[0], b[0] = 1, 1
	if !AddressOwner(a).Equal(AddressOwner(b)) {
		t.Fatal("equal addresses should compare equal")
	}
	b[0] = 2
	if AddressOwner(a).Equal(AddressOwner(b)) {
		t.Fatal("different addresses should not compare equal")
	}
	if AddressOwner(a).Equal(ImmutableOwner()) {
		t.Fatal("different owner kinds should not compare equal")
	}
	if !ImmutableOwner().Equal(ImmutableOwner()) {
		t.Fatal("immutable owners should compare equal")
	}
}
