package extend

import "testing"

func TestCountBasic(t *testing.T) {
	pool := []*Record{
		NewRecord(0, "AAA"),
		NewRecord(1, "AAT"),
		NewRecord(2, "AAG"),
		NewRecord(3, "ACC"),
	}
	c := Count(pool)
	if c.Coverage != 4 {
		t.Fatalf("Coverage = %d, want 4", c.Coverage)
	}
	if c.Bases[baseA] != 4 {
		t.Fatalf("Bases[A] = %d, want 4", c.Bases[baseA])
	}
	if IndexToBase[c.Argmax] != 'A' {
		t.Fatalf("Argmax base = %c, want A", IndexToBase[c.Argmax])
	}
}

func TestCountSkipsDroppedAndExhausted(t *testing.T) {
	dropped := NewRecord(0, "AAA")
	dropped.Dropped = true
	exhausted := NewRecord(1, "A")
	exhausted.Cursor = 1
	pool := []*Record{dropped, exhausted, NewRecord(2, "TTT")}
	c := Count(pool)
	if c.Coverage != 1 {
		t.Fatalf("Coverage = %d, want 1", c.Coverage)
	}
	if c.Bases[baseT] != 1 {
		t.Fatalf("Bases[T] = %d, want 1", c.Bases[baseT])
	}
}

// TestCountFilterUsesUnshiftedCursor pins the documented asymmetry: the
// filter always inspects the record's base at Cursor, even when offset
// shifts the sampled base to Cursor+offset. A filter that would reject
// the sampled base but accept the cursor base must therefore admit the
// record.
func TestCountFilterUsesUnshiftedCursor(t *testing.T) {
	r := NewRecord(0, "AT")
	acceptsOnlyA := func(b byte) bool { return b == 'A' }

	c := Count([]*Record{r}, WithFilter(acceptsOnlyA), WithOffset(1))
	if c.Coverage != 1 {
		t.Fatalf("Coverage = %d, want 1 (filter should pass on cursor base 'A')", c.Coverage)
	}
	if c.Bases[baseT] != 1 {
		t.Fatalf("Bases[T] = %d, want 1 (sampled base at cursor+1 is 'T')", c.Bases[baseT])
	}
}

func TestCountOffsetOutOfRange(t *testing.T) {
	r := NewRecord(0, "A")
	c := Count([]*Record{r}, WithOffset(1))
	if c.Coverage != 0 {
		t.Fatalf("Coverage = %d, want 0", c.Coverage)
	}
}

func TestArgmaxTieBreaksLowestIndex(t *testing.T) {
	if got := argmax([4]int{3, 3, 0, 0}); got != baseA {
		t.Fatalf("argmax tie = %d, want %d (baseA)", got, baseA)
	}
}
