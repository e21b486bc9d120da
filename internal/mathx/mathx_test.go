package mathx

import "testing"

func TestFloor_Negative(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0}, {0.5, 0}, {-0.5, -1}, {-1, -1}, {-1.0001, -2}, {3.9999, 3},
	}
	for _, c := range cases {
		if got := Floor(c.in); got != c.want {
			t.Errorf("Floor(%v) = %d, want %d", c.in, got, c.want)
		}
		if got := LFloor(c.in); got != int64(c.want) {
			t.Errorf("LFloor(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFloorDivMod(t *testing.T) {
	if FloorDiv(-1, 4) != -1 || FloorMod(-1, 4) != 3 {
		t.Errorf("FloorDiv/FloorMod(-1, 4) = %d, %d", FloorDiv(-1, 4), FloorMod(-1, 4))
	}
	if FloorDiv(7, 4) != 1 || FloorMod(7, 4) != 3 {
		t.Errorf("FloorDiv/FloorMod(7, 4) = %d, %d", FloorDiv(7, 4), FloorMod(7, 4))
	}
	if FloorDiv(-8, 4) != -2 || FloorMod(-8, 4) != 0 {
		t.Errorf("FloorDiv/FloorMod(-8, 4) = %d, %d", FloorDiv(-8, 4), FloorMod(-8, 4))
	}
}

func TestSmoothstep_Endpoints(t *testing.T) {
	if Smoothstep(0) != 0 || Smoothstep(1) != 1 || Smoothstep(0.5) != 0.5 {
		t.Errorf("Smoothstep endpoints: %v %v %v", Smoothstep(0), Smoothstep(1), Smoothstep(0.5))
	}
}

func TestClampedMap(t *testing.T) {
	if got := ClampedMap(-100, -64, 320, 1.5, -1.5); got != 1.5 {
		t.Errorf("below range = %v", got)
	}
	if got := ClampedMap(400, -64, 320, 1.5, -1.5); got != -1.5 {
		t.Errorf("above range = %v", got)
	}
	if got := ClampedMap(128, -64, 320, 1.5, -1.5); got != 0 {
		t.Errorf("midpoint = %v", got)
	}
}

func TestLerp3_Corners(t *testing.T) {
	v := [8]float64{1, 2, 3, 4, 5, 6, 7, 8}
	corners := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1}}
	for i, c := range corners {
		got := Lerp3(c[0], c[1], c[2], v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7])
		if got != v[i] {
			t.Errorf("corner %v = %v, want %v", c, got, v[i])
		}
	}
}

func TestBinarySearch(t *testing.T) {
	locs := []float32{-1, 0, 0.5, 2}
	idx := BinarySearch(0, len(locs), func(i int) bool { return 0.7 < locs[i] })
	if idx != 3 {
		t.Errorf("BinarySearch = %d, want 3", idx)
	}
	if BinarySearch(0, len(locs), func(i int) bool { return 5 < locs[i] }) != len(locs) {
		t.Errorf("BinarySearch past end should return len")
	}
}

func TestSeed_Known(t *testing.T) {
	if got := Seed(1, 2, 3); got != -33674130277896 {
		t.Errorf("Seed(1,2,3) = %d", got)
	}
}

func TestStringHash32(t *testing.T) {
	if got := StringHash32("minecraft:offset"); got != -920384768 {
		t.Errorf("StringHash32 = %d", got)
	}
	if StringHash32("") != 0 {
		t.Errorf("empty string hash should be 0")
	}
	if StringHash32("a") != 97 {
		t.Errorf("StringHash32(a) = %d", StringHash32("a"))
	}
}
