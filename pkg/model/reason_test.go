package model

import "testing"

func TestReason_ImplementsError(t *testing.T) {
	var err error = NewDeptMismatch(Art)
	if err.Error() == "" {
		t.Error("expected a non-empty message")
	}
}

func TestReason_NilIsSafe(t *testing.T) {
	var r *Reason
	if r.Error() != "" {
		t.Error("a nil *Reason should render as an empty string, not panic")
	}
}

func TestNewLoadExceeded_CarriesFields(t *testing.T) {
	r := NewLoadExceeded(4, 4, 3)
	if r.Tag != ReasonLoadExceeded {
		t.Errorf("tag = %s, want %s", r.Tag, ReasonLoadExceeded)
	}
	if r.Raw != 4 || r.Effective != 4 || r.Limit != 3 {
		t.Errorf("unexpected fields: raw=%d effective=%d limit=%d", r.Raw, r.Effective, r.Limit)
	}
}

func TestNewOtherGroup_CarriesGroupList(t *testing.T) {
	r := NewOtherGroup([]int{0, 2})
	if len(r.OtherGroups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(r.OtherGroups))
	}
	if r.OtherGroups[0] != 0 || r.OtherGroups[1] != 2 {
		t.Errorf("unexpected groups: %v", r.OtherGroups)
	}
}
