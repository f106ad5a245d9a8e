package safemem

import (
	"errors"
	"testing"
)

type record struct {
	ID    int64
	Name  string
	Tags  []string
	Score float64
}

func TestCellRoundTrip(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		c, err := NewCell(42)
		if err != nil {
			t.Fatal(err)
		}
		got, err := c.Get()
		if err != nil || got != 42 {
			t.Errorf("Get() = %d, %v; want 42, nil", got, err)
		}
	})

	t.Run("record", func(t *testing.T) {
		want := record{ID: 7, Name: "seven", Tags: []string{"a", "b"}, Score: 0.5}
		c, err := NewCell(want)
		if err != nil {
			t.Fatal(err)
		}
		got, err := c.Get()
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != want.ID || got.Name != want.Name || got.Score != want.Score || len(got.Tags) != 2 || got.Tags[1] != "b" {
			t.Errorf("Get() = %+v, want %+v", got, want)
		}
	})
}

func TestCellReplace(t *testing.T) {
	c, _ := NewCell("first")
	old, err := c.Replace("second")
	if err != nil || old != "first" {
		t.Fatalf("Replace() = %q, %v; want %q, nil", old, err, "first")
	}
	if v, _ := c.Get(); v != "second" {
		t.Errorf("Get() after Replace = %q, want %q", v, "second")
	}
}

func TestCellUpdate(t *testing.T) {
	c, _ := NewCell(10)
	if err := c.Update(func(v int) int { return v * 3 }); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Get(); v != 30 {
		t.Errorf("Get() after Update = %d, want 30", v)
	}
}

func TestCellRelease(t *testing.T) {
	tr := NewTracker(nil, 0)
	c, err := NewCell(uint32(42), WithAllocator(tr))
	if err != nil {
		t.Fatal(err)
	}
	if !c.Alive() {
		t.Fatal("new cell is not alive")
	}

	v, err := c.Release()
	if err != nil || v != 42 {
		t.Fatalf("Release() = %d, %v; want 42, nil", v, err)
	}
	if c.Alive() {
		t.Error("cell alive after Release")
	}

	// Second release is a no-op.
	v, err = c.Release()
	if err != nil || v != 0 {
		t.Errorf("second Release() = %d, %v; want 0, nil", v, err)
	}
	if m := tr.Metrics(); m.Allocs != 1 || m.Frees != 1 || m.DoubleFrees != 0 {
		t.Errorf("tracker metrics = %+v, want one alloc and one free", m)
	}

	if _, err := c.Get(); !errors.Is(err, ErrUseAfterRelease) {
		t.Errorf("Get() after Release error = %v, want ErrUseAfterRelease", err)
	}
	if _, err := c.Replace(7); !errors.Is(err, ErrUseAfterRelease) {
		t.Errorf("Replace() after Release error = %v, want ErrUseAfterRelease", err)
	}
	if err := c.Update(func(v uint32) uint32 { return v }); !errors.Is(err, ErrUseAfterRelease) {
		t.Errorf("Update() after Release error = %v, want ErrUseAfterRelease", err)
	}
	if _, err := c.Borrow(); !errors.Is(err, ErrUseAfterRelease) {
		t.Errorf("Borrow() after Release error = %v, want ErrUseAfterRelease", err)
	}
	if c.Alive() {
		t.Error("failed accesses revived the cell")
	}
}

func TestCellReleaseDoesNotRunUpdate(t *testing.T) {
	c, _ := NewCell(1)
	_, _ = c.Release()
	called := false
	_ = c.Update(func(v int) int { called = true; return v })
	if called {
		t.Error("Update ran its function on a released cell")
	}
}

func TestCellView(t *testing.T) {
	c, _ := NewCell(record{ID: 1})
	v, err := c.Borrow()
	if err != nil {
		t.Fatal(err)
	}
	if !v.Valid() {
		t.Fatal("fresh view is not valid")
	}

	_, _ = c.Replace(record{ID: 2})
	got, err := v.Get()
	if err != nil || got.ID != 2 {
		t.Errorf("View.Get() = %+v, %v; want ID 2", got, err)
	}

	_, _ = c.Release()
	if v.Valid() {
		t.Error("view valid after cell release")
	}
	if _, err := v.Get(); !errors.Is(err, ErrUseAfterRelease) {
		t.Errorf("View.Get() after release error = %v, want ErrUseAfterRelease", err)
	}

	var zero View[int]
	if _, err := zero.Get(); !errors.Is(err, ErrUseAfterRelease) {
		t.Errorf("zero View.Get() error = %v, want ErrUseAfterRelease", err)
	}
}

func TestCellAllocationFailure(t *testing.T) {
	tr := NewTracker(nil, 4)
	if _, err := NewCell(int64(1), WithAllocator(tr)); !errors.Is(err, ErrAllocation) {
		t.Fatalf("NewCell beyond limit error = %v, want ErrAllocation", err)
	}
	if tr.Live() != 0 {
		t.Errorf("Live() = %d after failed NewCell, want 0", tr.Live())
	}
}

func TestFreshCellDoesNotSeeReleasedValue(t *testing.T) {
	type aStruct struct{ Data uint32 }

	first, _ := NewCell(aStruct{Data: 42})
	_, _ = first.Release()

	second, _ := NewCell(aStruct{Data: 7})
	got, err := second.Get()
	if err != nil || got.Data != 7 {
		t.Errorf("fresh cell Get() = %+v, %v; want Data 7", got, err)
	}
}

func TestCellUpdateReleasingCell(t *testing.T) {
	tr := NewTracker(nil, 0)
	c, _ := NewCell(1, WithAllocator(tr))

	err := c.Update(func(v int) int {
		_, _ = c.Release()
		return 99
	})
	if !errors.Is(err, ErrUseAfterRelease) {
		t.Fatalf("Update error = %v, want ErrUseAfterRelease", err)
	}
	if c.Alive() {
		t.Error("cell revived by Update")
	}
	if _, err := c.Get(); !errors.Is(err, ErrUseAfterRelease) {
		t.Errorf("Get() error = %v, want ErrUseAfterRelease", err)
	}
	if m := tr.Metrics(); !tr.Balanced() || m.Frees != 1 {
		t.Errorf("tracker metrics = %+v", m)
	}
}
