package store

import "testing"

func TestResolveSectionID(t *testing.T) {
	ids := []int64{101, 102, 103}

	if got := ResolveSectionID(ids, 0); got == nil || *got != 101 {
		t.Errorf("index 0: expected 101, got %v", got)
	}
	if got := ResolveSectionID(ids, 2); got == nil || *got != 103 {
		t.Errorf("index 2: expected 103, got %v", got)
	}
	if got := ResolveSectionID(ids, -1); got != nil {
		t.Errorf("index -1: expected nil, got %v", *got)
	}
	if got := ResolveSectionID(ids, 3); got != nil {
		t.Errorf("out-of-range index: expected nil, got %v", *got)
	}
	if got := ResolveSectionID(nil, 0); got != nil {
		t.Errorf("empty slice: expected nil, got %v", *got)
	}
}
