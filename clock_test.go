package tracering

import "testing"

func TestNowMonotonic(t *testing.T) {
	a := Now()
	if a == 0 {
		t.Fatal("monotonic clock read failed")
	}
	for i := 0; i < 1000; i++ {
		b := Now()
		if b < a {
			t.Fatalf("clock went backwards: %d then %d", a, b)
		}
		a = b
	}
}
