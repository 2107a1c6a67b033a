package dam

import "testing"

func TestTimeCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b Time
		want int
	}{
		{"equal finite", NewTime(5), NewTime(5), 0},
		{"less", NewTime(3), NewTime(5), -1},
		{"greater", NewTime(9), NewTime(5), 1},
		{"both infinite", Infinite(), Infinite(), 0},
		{"self infinite", Infinite(), NewTime(1000), 1},
		{"other infinite", NewTime(1000), Infinite(), -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Compare(c.b); got != c.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestTimeLessAtLeastEqual(t *testing.T) {
	a, b := NewTime(1), NewTime(2)
	if !a.Less(b) {
		t.Error("expected 1 < 2")
	}
	if a.AtLeast(b) {
		t.Error("expected 1 not >= 2")
	}
	if !b.AtLeast(a) {
		t.Error("expected 2 >= 1")
	}
	if !a.Equal(NewTime(1)) {
		t.Error("expected 1 == 1")
	}
}

func TestTimeAdd(t *testing.T) {
	got := NewTime(5).Add(3)
	if want := NewTime(8); !got.Equal(want) || got.Cycles != want.Cycles {
		t.Errorf("Add = %v, want %v", got, want)
	}
	done := Infinite().Add(3)
	if !done.Done {
		t.Error("expected done flag to pass through Add")
	}
}

func TestTimeAddTime(t *testing.T) {
	got := NewTime(5).AddTime(NewTime(3))
	if got.Cycles != 8 || got.Done {
		t.Errorf("AddTime = %v, want {8 false}", got)
	}
	got = NewTime(5).AddTime(Infinite())
	if !got.Done {
		t.Error("expected AddTime to OR the done flags")
	}
}

func TestMaxMin(t *testing.T) {
	a, b := NewTime(3), NewTime(9)
	if Max(a, b) != b {
		t.Errorf("Max(3, 9) = %v, want %v", Max(a, b), b)
	}
	if Min(a, b) != a {
		t.Errorf("Min(3, 9) = %v, want %v", Min(a, b), a)
	}
	if Max(a, Infinite()) != Infinite() {
		t.Error("expected Max with infinite to be infinite")
	}
}

func TestTimeString(t *testing.T) {
	if got, want := NewTime(12).String(), "12"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := Infinite().String(), "inf0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
