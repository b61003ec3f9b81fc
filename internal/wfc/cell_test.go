package wfc

import "testing"

func TestCellCollapsed(t *testing.T) {
	c := newCell(0, 0, []string{"a", "b"})
	if c.Collapsed() {
		t.Fatal("cell with two possibilities should not be collapsed")
	}
	c.remove("a")
	if !c.Collapsed() {
		t.Fatal("cell with one possibility should be collapsed")
	}
	id, ok := c.CollapsedTile()
	if !ok || id != "b" {
		t.Fatalf("CollapsedTile() = (%q, %v), want (\"b\", true)", id, ok)
	}
}

func TestCellRemoveReportsContradiction(t *testing.T) {
	c := newCell(0, 0, []string{"a"})
	if contradiction := c.remove("a"); !contradiction {
		t.Fatal("removing the last possibility should report a contradiction")
	}
	if c.Count() != 0 {
		t.Fatalf("expected 0 possibilities, got %d", c.Count())
	}
}

func TestCellRemoveUnknownIsNoop(t *testing.T) {
	c := newCell(0, 0, []string{"a", "b"})
	if c.remove("missing") {
		t.Fatal("removing an absent tile should not report a contradiction")
	}
	if c.Count() != 2 {
		t.Fatalf("expected count unchanged, got %d", c.Count())
	}
}

func TestCellAddRestoresPossibility(t *testing.T) {
	c := newCell(0, 0, []string{"a", "b"})
	c.remove("a")
	c.add("a")
	if !c.Has("a") {
		t.Fatal("expected a restored after add")
	}
	if c.Count() != 2 {
		t.Fatalf("expected count 2, got %d", c.Count())
	}
}

func TestCellSupportDecrement(t *testing.T) {
	c := newCell(0, 0, []string{"a"})
	c.setSupport("a", North, 2)
	if reachedZero := c.decrement("a", North); reachedZero {
		t.Fatal("decrementing from 2 should not reach zero")
	}
	if got := c.Support("a", North); got != 1 {
		t.Fatalf("Support after one decrement = %d, want 1", got)
	}
	if reachedZero := c.decrement("a", North); !reachedZero {
		t.Fatal("decrementing from 1 should reach zero")
	}
}

func TestCellDecrementAtZeroStaysTrue(t *testing.T) {
	c := newCell(0, 0, []string{"a"})
	c.setSupport("a", North, 0)
	if reachedZero := c.decrement("a", North); !reachedZero {
		t.Fatal("decrementing an already-zero support should report reached-zero")
	}
	if got := c.Support("a", North); got != 0 {
		t.Fatalf("support should stay at 0, got %d", got)
	}
}
