package extend

import "testing"

func TestConsumesReadBase(t *testing.T) {
	for _, op := range []byte{'M', 'I', 'S', 'X', '='} {
		if !ConsumesReadBase(op) {
			t.Errorf("ConsumesReadBase(%c) = false, want true", op)
		}
	}
	for _, op := range []byte{'D', 'N', 'H', 'P'} {
		if ConsumesReadBase(op) {
			t.Errorf("ConsumesReadBase(%c) = true, want false", op)
		}
	}
}

func TestConsumesReferenceBase(t *testing.T) {
	for _, op := range []byte{'M', 'D', 'X', '=', 'N'} {
		if !ConsumesReferenceBase(op) {
			t.Errorf("ConsumesReferenceBase(%c) = false, want true", op)
		}
	}
	for _, op := range []byte{'I', 'S', 'H', 'P'} {
		if ConsumesReferenceBase(op) {
			t.Errorf("ConsumesReferenceBase(%c) = true, want false", op)
		}
	}
}
