package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthToPT 覆盖 Length 在常见单位上到 pt 的转换。
func TestLengthToPT(t *testing.T) {
	cases := []struct {
		in   Length
		want float64
	}{
		{Length{Value: 1, Unit: UnitIN}, 72},
		{Length{Value: 30, Unit: UnitPT}, 30},
		{Length{Value: 12, Unit: UnitNone}, 12},
		{Length{Value: 10, Unit: UnitMM}, 10 * MmToPt},
		{Length{Value: 1, Unit: UnitCM}, 10 * MmToPt},
	}
	for _, c := range cases {
		if got := c.in.ToPT(); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%+v 转 pt 期望 %g，实际 %g", c.in, c.want, got)
		}
	}
	if got := (Length{Value: 1, Unit: UnitIN}).ToMM(); math.Abs(got-25.4) > 1e-3 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
}

func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"30pt":   {Value: 30, Unit: UnitPT},
		" 12mm ": {Value: 12, Unit: UnitMM},
		"1.5cm":  {Value: 1.5, Unit: UnitCM},
		"12":     {Value: 12, Unit: UnitNone},
	}
	for in, want := range cases {
		got, ok := ParseLength(in)
		if !ok || got != want {
			t.Fatalf("ParseLength(%q) = %+v, %v; 期望 %+v", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "portrait", "pt"} {
		if _, ok := ParseLength(in); ok {
			t.Fatalf("ParseLength(%q) 应失败", in)
		}
	}
}
