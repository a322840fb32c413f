package utils

import "testing"

// -----------------------------------------------------------------------------
// ░░ Formatter Round Trips ░░
// -----------------------------------------------------------------------------

func TestUtoa(t *testing.T) {
	cases := map[uint64]string{
		0:                    "0",
		7:                    "7",
		10:                   "10",
		255:                  "255",
		18446744073709551615: "18446744073709551615",
	}
	for in, want := range cases {
		if got := Utoa(in); got != want {
			t.Fatalf("Utoa(%d) = %q; want %q", in, got, want)
		}
	}
}

func TestItoa(t *testing.T) {
	if got := Itoa(-42); got != "-42" {
		t.Fatalf("Itoa(-42) = %q; want -42", got)
	}
	if got := Itoa(42); got != "42" {
		t.Fatalf("Itoa(42) = %q; want 42", got)
	}
}

func TestHtoa(t *testing.T) {
	cases := map[uint64]string{
		0:      "0x0",
		15:     "0xf",
		0x20:   "0x20",
		0xdead: "0xdead",
	}
	for in, want := range cases {
		if got := Htoa(in); got != want {
			t.Fatalf("Htoa(%#x) = %q; want %q", in, got, want)
		}
	}
}

// -----------------------------------------------------------------------------
// ░░ Byte Loaders ░░
// -----------------------------------------------------------------------------

func TestLoadBE64(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	if got := LoadBE64(b); got != 0x0102030405060708 {
		t.Fatalf("LoadBE64 = %#x; want 0x0102030405060708", got)
	}
}

func TestS2bAliases(t *testing.T) {
	s := "abc"
	b := S2b(s)
	if len(b) != 3 || b[0] != 'a' || b[2] != 'c' {
		t.Fatalf("S2b(%q) = %v", s, b)
	}
	if S2b("") != nil {
		t.Fatal("S2b(\"\") should be nil")
	}
}
