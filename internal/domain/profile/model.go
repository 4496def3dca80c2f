package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BloodType is the closed set of blood type values understood by the
// IntelliAlert backend. The zero-ish default is BloodTypeUnknown.
type BloodType string

const (
	BloodTypeUnknown BloodType = "Unknown"
	BloodTypeAPos    BloodType = "A+"
	BloodTypeANeg    BloodType = "A-"
	BloodTypeBPos    BloodType = "B+"
	BloodTypeBNeg    BloodType = "B-"
	BloodTypeABPos   BloodType = "AB+"
	BloodTypeABNeg   BloodType = "AB-"
	BloodTypeOPos    BloodType = "O+"
	BloodTypeONeg    BloodType = "O-"
)

// BloodTypes lists every valid blood type, in the order the mobile client
// presents them.
func BloodTypes() []BloodType {
	return []BloodType{
		BloodTypeUnknown,
		BloodTypeAPos, BloodTypeANeg,
		BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg,
		BloodTypeOPos, BloodTypeONeg,
	}
}

// Valid reports whether b is one of the nine enumerated values.
func (b BloodType) Valid() bool {
	switch b {
	case BloodTypeUnknown,
		BloodTypeAPos, BloodTypeANeg,
		BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg,
		BloodTypeOPos, BloodTypeONeg:
		return true
	}
	return false
}

// ListField names one of the profile's string-list fields. List fields allow
// duplicate entries; removal takes out every equal entry.
type ListField string

const (
	FieldConditions  ListField = "conditions"
	FieldAllergies   ListField = "allergies"
	FieldMedications ListField = "medications"
	FieldLocations   ListField = "otherFrequentLocations"
)

// Valid reports whether f names a known list field.
func (f ListField) Valid() bool {
	switch f {
	case FieldConditions, FieldAllergies, FieldMedications, FieldLocations:
		return true
	}
	return false
}

// EmergencyContact is a person to notify in an emergency. Identity is the
// generated ID; names and phone numbers may repeat across contacts.
type EmergencyContact struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	PhoneNumber  string    `json:"phoneNumber"`
}

// MedicalInfo holds critical medical details for emergency responders.
type MedicalInfo struct {
	Conditions  []string  `json:"conditions"`
	Allergies   []string  `json:"allergies"`
	Medications []string  `json:"medications"`
	BloodType   BloodType `json:"bloodType"`
	OrganDonor  bool      `json:"organDonor"`
}

// EmergencyPreferences holds the user's preferences for emergency care.
type EmergencyPreferences struct {
	PreferredHospital   string `json:"preferredHospital"`
	DoctorName          string `json:"doctorName"`
	DoctorPhone         string `json:"doctorPhone"`
	SpecialInstructions string `json:"specialInstructions"`
}

// LocationInfo holds the addresses responders should know about.
type LocationInfo struct {
	HomeAddress            string   `json:"homeAddress"`
	WorkAddress            string   `json:"workAddress"`
	OtherFrequentLocations []string `json:"otherFrequentLocations"`
}

// EmergencyProfile is the root aggregate: one profile per authenticated user.
// JSON field names match the wire format expected by the IntelliAlert backend
// (PUT /users/update_profile/{userId}).
type EmergencyProfile struct {
	FullName             string               `json:"fullName"`
	DateOfBirth          time.Time            `json:"dateOfBirth"`
	PhoneNumber          string               `json:"phoneNumber"`
	EmergencyContacts    []EmergencyContact   `json:"emergencyContacts"`
	MedicalInfo          MedicalInfo          `json:"medicalInfo"`
	EmergencyPreferences EmergencyPreferences `json:"emergencyPreferences"`
	LocationInfo         LocationInfo         `json:"locationInfo"`
}

// NewProfile returns a profile with the documented defaults: empty strings,
// empty (non-nil) lists, BloodTypeUnknown, organDonor false.
func NewProfile() *EmergencyProfile {
	return &EmergencyProfile{
		EmergencyContacts: []EmergencyContact{},
		MedicalInfo: MedicalInfo{
			Conditions:  []string{},
			Allergies:   []string{},
			Medications: []string{},
			BloodType:   BloodTypeUnknown,
		},
		LocationInfo: LocationInfo{
			OtherFrequentLocations: []string{},
		},
	}
}

// Clone returns a deep copy of the profile. Mutating the copy never affects
// the original.
func (p *EmergencyProfile) Clone() *EmergencyProfile {
	out := *p
	out.EmergencyContacts = append([]EmergencyContact(nil), p.EmergencyContacts...)
	out.MedicalInfo.Conditions = append([]string(nil), p.MedicalInfo.Conditions...)
	out.MedicalInfo.Allergies = append([]string(nil), p.MedicalInfo.Allergies...)
	out.MedicalInfo.Medications = append([]string(nil), p.MedicalInfo.Medications...)
	out.LocationInfo.OtherFrequentLocations = append([]string(nil), p.LocationInfo.OtherFrequentLocations...)
	return &out
}

// Normalize fills in the zero-value gaps left by a partial JSON document: an
// unset blood type becomes Unknown and nil lists become empty ones. Invalid
// non-empty values are left alone for Validate to reject.
func (p *EmergencyProfile) Normalize() {
	if p.MedicalInfo.BloodType == "" {
		p.MedicalInfo.BloodType = BloodTypeUnknown
	}
	if p.EmergencyContacts == nil {
		p.EmergencyContacts = []EmergencyContact{}
	}
	if p.MedicalInfo.Conditions == nil {
		p.MedicalInfo.Conditions = []string{}
	}
	if p.MedicalInfo.Allergies == nil {
		p.MedicalInfo.Allergies = []string{}
	}
	if p.MedicalInfo.Medications == nil {
		p.MedicalInfo.Medications = []string{}
	}
	if p.LocationInfo.OtherFrequentLocations == nil {
		p.LocationInfo.OtherFrequentLocations = []string{}
	}
}

// Validate checks the profile against the schema invariants. Only the blood
// type is constrained; every other field is free-form.
func (p *EmergencyProfile) Validate() error {
	if !p.MedicalInfo.BloodType.Valid() {
		return fmt.Errorf("invalid blood type %q", p.MedicalInfo.BloodType)
	}
	return nil
}

// listRef returns a pointer to the slice behind a list field.
func (p *EmergencyProfile) listRef(field ListField) *[]string {
	switch field {
	case FieldConditions:
		return &p.MedicalInfo.Conditions
	case FieldAllergies:
		return &p.MedicalInfo.Allergies
	case FieldMedications:
		return &p.MedicalInfo.Medications
	case FieldLocations:
		return &p.LocationInfo.OtherFrequentLocations
	}
	return nil
}

// ListItems returns a copy of the entries behind a list field, or nil when
// the field name is unknown.
func (p *EmergencyProfile) ListItems(field ListField) []string {
	ref := p.listRef(field)
	if ref == nil {
		return nil
	}
	return append([]string(nil), *ref...)
}
