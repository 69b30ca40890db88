package iceberg

import "testing"

func TestBallCounters_AddAndSync(t *testing.T) {
	c := newBallCounters()

	c.add(c.lv1, 5, 0)
	c.add(c.lv1, -2, 1)
	c.add(c.lv2, 3, 2)
	c.add(c.lv3, 1, 3)

	if got := c.lv1Balls(); got != 3 {
		t.Fatalf("lv1Balls() = %d; want 3", got)
	}
	if got := c.lv2Balls(); got != 3 {
		t.Fatalf("lv2Balls() = %d; want 3", got)
	}
	if got := c.lv3Balls(); got != 1 {
		t.Fatalf("lv3Balls() = %d; want 1", got)
	}
	if got := c.totBalls(); got != 7 {
		t.Fatalf("totBalls() = %d; want 7", got)
	}
}

func TestBallCounters_NegativeTotalPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("sync on a negative counter did not panic")
		}
	}()

	c := newBallCounters()
	c.add(c.lv1, -1, 0)
	c.lv1Balls()
}
