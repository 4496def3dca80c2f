package profile

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProfileWireFieldNames(t *testing.T) {
	p := NewProfile()
	p.FullName = "Asha Rao"
	p.EmergencyContacts = []EmergencyContact{{Name: "Ben", PhoneNumber: "555-0101"}}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)
	for _, field := range []string{
		`"fullName"`, `"dateOfBirth"`, `"phoneNumber"`, `"emergencyContacts"`,
		`"medicalInfo"`, `"bloodType"`, `"organDonor"`, `"conditions"`,
		`"allergies"`, `"medications"`, `"emergencyPreferences"`,
		`"preferredHospital"`, `"doctorName"`, `"doctorPhone"`,
		`"specialInstructions"`, `"locationInfo"`, `"homeAddress"`,
		`"workAddress"`, `"otherFrequentLocations"`, `"relationship"`,
	} {
		if !strings.Contains(body, field) {
			t.Errorf("wire document missing %s: %s", field, body)
		}
	}
}

func TestBloodTypesOrder(t *testing.T) {
	want := []BloodType{
		BloodTypeUnknown, BloodTypeAPos, BloodTypeANeg, BloodTypeBPos,
		BloodTypeBNeg, BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos,
		BloodTypeONeg,
	}
	got := BloodTypes()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("BloodTypes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for _, b := range got {
		if !b.Valid() {
			t.Errorf("expected %q to be valid", b)
		}
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	var p EmergencyProfile
	if err := json.Unmarshal([]byte(`{"fullName":"Asha Rao"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p.Normalize()
	if p.MedicalInfo.BloodType != BloodTypeUnknown {
		t.Errorf("blood type = %q, want Unknown", p.MedicalInfo.BloodType)
	}
	if p.EmergencyContacts == nil || p.MedicalInfo.Conditions == nil ||
		p.MedicalInfo.Allergies == nil || p.MedicalInfo.Medications == nil ||
		p.LocationInfo.OtherFrequentLocations == nil {
		t.Error("expected all lists to be non-nil after Normalize")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate after Normalize: %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := NewProfile()
	p.MedicalInfo.Conditions = []string{"Asthma"}
	p.EmergencyContacts = []EmergencyContact{{Name: "Ben", PhoneNumber: "555-0101"}}

	cp := p.Clone()
	cp.MedicalInfo.Conditions[0] = "mutated"
	cp.EmergencyContacts[0].Name = "mutated"

	if p.MedicalInfo.Conditions[0] != "Asthma" || p.EmergencyContacts[0].Name != "Ben" {
		t.Error("clone mutation leaked into the original")
	}
}
