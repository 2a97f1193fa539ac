package cases

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusUpcoming, StatusActive, true},
		{StatusUpcoming, StatusClosed, true},
		{StatusActive, StatusClosed, true},
		{StatusActive, StatusUpcoming, false},
		{StatusClosed, StatusActive, true},
		{StatusClosed, StatusUpcoming, false},
		{StatusActive, StatusActive, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCreateInput_Validate(t *testing.T) {
	in := CreateInput{}
	if err := in.Validate(); err == nil {
		t.Error("expected error for missing patient_id")
	}

	in = CreateInput{
		PatientID: "a2f1f6b2-46c1-4f6a-9c1f-3d4c5e6f7a8b",
		Status:    "Archived",
	}
	if err := in.Validate(); err == nil {
		t.Error("expected error for unknown status")
	}

	in = CreateInput{
		PatientID: "a2f1f6b2-46c1-4f6a-9c1f-3d4c5e6f7a8b",
		Status:    StatusUpcoming,
		AdmitType: AdmitEmergency,
		StartedAt: "2024-06-01",
	}
	if err := in.Validate(); err != nil {
		t.Errorf("expected valid input, got %v", err)
	}
}

func TestUpdateInput_Validate(t *testing.T) {
	bad := "Paused"
	in := UpdateInput{Status: &bad}
	if err := in.Validate(); err == nil {
		t.Error("expected error for unknown status")
	}

	empty := ""
	in = UpdateInput{AdmitType: &empty}
	if err := in.Validate(); err == nil {
		t.Error("expected error for explicit empty admit_type")
	}

	in = UpdateInput{}
	if err := in.Validate(); err != nil {
		t.Errorf("empty update should be valid, got %v", err)
	}
}
