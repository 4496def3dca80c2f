package profile

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds exactly one EmergencyProfile for the duration of an editing
// session, plus the staging buffers used while composing a new contact or
// list entry. It is explicitly constructed and passed to whoever needs it;
// there is no process-wide instance. All reads hand out copies, and writers
// go through explicit setters, so the presentation layer never holds a
// reference into the aggregate.
type Store struct {
	mu        sync.Mutex
	profile   *EmergencyProfile
	staged    EmergencyContact
	stagedStr map[ListField]string
	listeners []func(EmergencyProfile)
}

// NewStore returns a Store seeded with a default profile.
func NewStore() *Store {
	return &Store{
		profile:   NewProfile(),
		stagedStr: make(map[ListField]string),
	}
}

// Snapshot returns a deep copy of the current profile.
func (s *Store) Snapshot() *EmergencyProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Replace swaps in a whole profile, validating it first. Used when loading
// from local storage and by the whole-profile update endpoint.
func (s *Store) Replace(p *EmergencyProfile) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = p.Clone()
	s.mu.Unlock()
	s.notify()
	return nil
}

// OnChange registers a listener invoked with a snapshot after every committed
// mutation. Listeners run on the mutating goroutine, outside the store lock.
func (s *Store) OnChange(fn func(EmergencyProfile)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	snap := *s.profile.Clone()
	fns := append(([]func(EmergencyProfile))(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// -- Scalar setters --

func (s *Store) SetFullName(name string) {
	s.mu.Lock()
	s.profile.FullName = name
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetDateOfBirth(dob time.Time) {
	s.mu.Lock()
	s.profile.DateOfBirth = dob
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetPhoneNumber(phone string) {
	s.mu.Lock()
	s.profile.PhoneNumber = phone
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetOrganDonor(donor bool) {
	s.mu.Lock()
	s.profile.MedicalInfo.OrganDonor = donor
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetEmergencyPreferences(p EmergencyPreferences) {
	s.mu.Lock()
	s.profile.EmergencyPreferences = p
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetHomeAddress(addr string) {
	s.mu.Lock()
	s.profile.LocationInfo.HomeAddress = addr
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetWorkAddress(addr string) {
	s.mu.Lock()
	s.profile.LocationInfo.WorkAddress = addr
	s.mu.Unlock()
	s.notify()
}

// SetBloodType sets the blood type; values outside the enumeration are
// rejected and leave the profile unchanged.
func (s *Store) SetBloodType(b BloodType) bool {
	if !b.Valid() {
		return false
	}
	s.mu.Lock()
	s.profile.MedicalInfo.BloodType = b
	s.mu.Unlock()
	s.notify()
	return true
}

// -- Emergency contacts --

// StageContact replaces the staging contact (the "add contact" form buffer).
// Any ID on the candidate is ignored; IDs are assigned on commit.
func (s *Store) StageContact(c EmergencyContact) {
	c.ID = uuid.Nil
	s.mu.Lock()
	s.staged = c
	s.mu.Unlock()
}

// StagedContact returns the current staging contact.
func (s *Store) StagedContact() EmergencyContact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged
}

// CanAddContact reports whether the staging contact satisfies the add guard
// (non-empty name and phone number). The UI uses this to disable the add
// action rather than surface an error.
func (s *Store) CanAddContact() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged.Name != "" && s.staged.PhoneNumber != ""
}

// AddContact appends the candidate with a freshly generated ID. When name or
// phone number is empty the call is a no-op and ok is false; the contact list
// is left untouched. On success the staging contact is cleared.
func (s *Store) AddContact(c EmergencyContact) (EmergencyContact, bool) {
	if c.Name == "" || c.PhoneNumber == "" {
		return EmergencyContact{}, false
	}
	c.ID = uuid.New()
	s.mu.Lock()
	s.profile.EmergencyContacts = append(s.profile.EmergencyContacts, c)
	s.staged = EmergencyContact{}
	s.mu.Unlock()
	s.notify()
	return c, true
}

// CommitStagedContact commits the staging contact via AddContact.
func (s *Store) CommitStagedContact() (EmergencyContact, bool) {
	s.mu.Lock()
	c := s.staged
	s.mu.Unlock()
	return s.AddContact(c)
}

// RemoveContact removes the contact with the given ID. A missing ID is a
// no-op, not an error; the return value reports whether anything was removed.
func (s *Store) RemoveContact(id uuid.UUID) bool {
	s.mu.Lock()
	contacts := s.profile.EmergencyContacts
	removed := false
	for i, c := range contacts {
		if c.ID == id {
			s.profile.EmergencyContacts = append(contacts[:i], contacts[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()
	if removed {
		s.notify()
	}
	return removed
}

// -- List fields --

// StageListItem sets the staging buffer for one of the list fields.
func (s *Store) StageListItem(field ListField, value string) {
	if !field.Valid() {
		return
	}
	s.mu.Lock()
	s.stagedStr[field] = value
	s.mu.Unlock()
}

// StagedListItem returns the staging buffer for a list field.
func (s *Store) StagedListItem(field ListField) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stagedStr[field]
}

// AddListItem appends value to the named list field and clears that field's
// staging buffer. Empty values and unknown fields are no-ops. Lists carry no
// uniqueness constraint, so repeated adds produce duplicates.
func (s *Store) AddListItem(field ListField, value string) bool {
	if value == "" || !field.Valid() {
		return false
	}
	s.mu.Lock()
	ref := s.profile.listRef(field)
	*ref = append(*ref, value)
	delete(s.stagedStr, field)
	s.mu.Unlock()
	s.notify()
	return true
}

// CommitStagedListItem commits the staging buffer via AddListItem.
func (s *Store) CommitStagedListItem(field ListField) bool {
	s.mu.Lock()
	value := s.stagedStr[field]
	s.mu.Unlock()
	return s.AddListItem(field, value)
}

// RemoveListItem removes every entry equal to value from the named list
// field, returning how many were removed. Lists have no uniqueness
// constraint, so removal is remove-all-equal.
func (s *Store) RemoveListItem(field ListField, value string) int {
	if !field.Valid() {
		return 0
	}
	s.mu.Lock()
	ref := s.profile.listRef(field)
	kept := (*ref)[:0]
	removed := 0
	for _, v := range *ref {
		if v == value {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	*ref = kept
	s.mu.Unlock()
	if removed > 0 {
		s.notify()
	}
	return removed
}
