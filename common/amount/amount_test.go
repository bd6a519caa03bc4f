package amount

import (
	"testing"
)

func Test_Amount(t *testing.T) {
	a := COIN.DivC(1000)
	if a.String() != "0.001" {
		t.Fatal("unexpected fraction", a.String())
	}
	b := COIN.MulC(10000)
	if b.String() != "10000" {
		t.Fatal("unexpected integer", b.String())
	}
	if a.Add(b).String() != "10000.001" {
		t.Fatal("unexpected add", a.Add(b).String())
	}
	if a.Sub(b).String() != "-9999.999" {
		t.Fatal("unexpected sub", a.Sub(b).String())
	}
	c, err := ParseAmount("10000.00121454")
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != "10000.00121454" {
		t.Fatal("unexpected parse", c.String())
	}
	if !NewAmountFromBytes(c.Bytes()).Equal(c) {
		t.Fatal("bytes roundtrip mismatch")
	}
}

func Test_AmountJSON(t *testing.T) {
	c := MustParseAmount("12.5")
	bs, err := c.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != `"12.5"` {
		t.Fatal("unexpected json", string(bs))
	}
	var d Amount
	if err := d.UnmarshalJSON(bs); err != nil {
		t.Fatal(err)
	}
	if !d.Equal(c) {
		t.Fatal("json roundtrip mismatch")
	}
}
