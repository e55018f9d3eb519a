package money

import "testing"

func TestHalfUsesBankersRounding(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"100", "50"},
		{"101", "50"}, // 50.5 rounds to nearest-even 50
		{"103", "52"}, // 51.5 rounds to nearest-even 52
		{"15", "8"},   // 7.5 rounds to nearest-even 8
	}
	for _, c := range cases {
		a := MustFromString(c.amount)
		got := a.Half().String()
		if got != c.want {
			t.Errorf("Half(%s) = %s, want %s", c.amount, got, c.want)
		}
	}
}

func TestFloorHalfAlwaysRoundsDown(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"100", "50"},
		{"101", "50"},
		{"103", "51"},
		{"15", "7"},
	}
	for _, c := range cases {
		a := MustFromString(c.amount)
		got := a.FloorHalf().String()
		if got != c.want {
			t.Errorf("FloorHalf(%s) = %s, want %s", c.amount, got, c.want)
		}
	}
}

func TestRoundPayoutUsesBankersRounding(t *testing.T) {
	cases := []struct {
		amount string
		ratio  string
		want   string
	}{
		{"25", "1.5", "38"},  // 37.5 rounds to nearest-even 38
		{"15", "1.2", "18"},  // 18 exactly, no rounding needed
		{"10", "1.5", "15"},  // 15 exactly
		{"45", "1.5", "68"},  // 67.5 rounds to nearest-even 68
	}
	for _, c := range cases {
		a := MustFromString(c.amount)
		ratio := MustFromString(c.ratio).Decimal()
		got := a.MulRat(ratio).RoundPayout().String()
		if got != c.want {
			t.Errorf("RoundPayout(%s * %s) = %s, want %s", c.amount, c.ratio, got, c.want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	a := FromInt(100)
	b := FromInt(40)
	if got := a.Add(b).String(); got != "140" {
		t.Errorf("Add: got %s, want 140", got)
	}
	if got := a.Sub(b).String(); got != "60" {
		t.Errorf("Sub: got %s, want 60", got)
	}
	if got := a.Neg().String(); got != "-100" {
		t.Errorf("Neg: got %s, want -100", got)
	}
}

func TestComparisons(t *testing.T) {
	a := FromInt(50)
	b := FromInt(100)
	if !a.LessThan(b) {
		t.Error("50 should be less than 100")
	}
	if !b.GreaterThan(a) {
		t.Error("100 should be greater than 50")
	}
	if !Zero.IsZero() {
		t.Error("Zero should report IsZero")
	}
	if !a.Neg().IsNegative() {
		t.Error("-50 should be negative")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	a := MustFromString("123.45")
	raw, err := a.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(raw) != `"123.45"` {
		t.Fatalf("expected a quoted string, got %s", raw)
	}
	var b Amount
	if err := b.UnmarshalJSON(raw); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if b.String() != "123.45" {
		t.Fatalf("round-trip mismatch: got %s", b.String())
	}
}
