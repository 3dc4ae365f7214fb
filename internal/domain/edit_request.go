package domain

import (
	"fmt"
	"time"
)

// EditRequestStatus enumerates the edit-request lifecycle.
type EditRequestStatus string

const (
	EditRequestPending  EditRequestStatus = "PENDING"
	EditRequestApproved EditRequestStatus = "APPROVED"
	EditRequestRejected EditRequestStatus = "REJECTED"
)

// EditField enumerates the staff fields a change-set may carry.
type EditField string

const (
	EditFieldSurname       EditField = "surname"
	EditFieldOtherNames    EditField = "other_names"
	EditFieldRank          EditField = "rank"
	EditFieldGender        EditField = "gender"
	EditFieldDOFA          EditField = "dofa"
	EditFieldDOPA          EditField = "dopa"
	EditFieldDOPP          EditField = "dopp"
	EditFieldDOB           EditField = "dob"
	EditFieldStateID       EditField = "state_id"
	EditFieldLGAID         EditField = "lga_id"
	EditFieldHomeTown      EditField = "home_town"
	EditFieldQualification EditField = "qualification"
	EditFieldPhoneNo       EditField = "phone_no"
	EditFieldNextOfKin     EditField = "next_of_kin"
	EditFieldNOKPhone      EditField = "nok_phone"
	EditFieldRemark        EditField = "remark"
)

// FieldKind tags the value shape carried for a field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDate
	KindRef
)

// editableFields is the permitted-fields allowlist with the value kind each
// field accepts. Anything absent from this map cannot be queued or applied.
var editableFields = map[EditField]FieldKind{
	EditFieldSurname:       KindText,
	EditFieldOtherNames:    KindText,
	EditFieldRank:          KindText,
	EditFieldGender:        KindText,
	EditFieldDOFA:          KindDate,
	EditFieldDOPA:          KindDate,
	EditFieldDOPP:          KindDate,
	EditFieldDOB:           KindDate,
	EditFieldStateID:       KindRef,
	EditFieldLGAID:         KindRef,
	EditFieldHomeTown:      KindText,
	EditFieldQualification: KindText,
	EditFieldPhoneNo:       KindText,
	EditFieldNextOfKin:     KindText,
	EditFieldNOKPhone:      KindText,
	EditFieldRemark:        KindText,
}

// forbiddenFields are rejected outright regardless of permission flags.
// Office assignment, roles and exit state move only through their own
// administrative flows, never through a change-set.
var forbiddenFields = map[EditField]struct{}{
	"office":             {},
	"role":               {},
	"exit_date":          {},
	"exit_mode":          {},
	"out_request_status": {},
	"out_request_date":   {},
	"out_request_reason": {},
	"allow_login":        {},
	"allow_edit_rank":    {},
	"allow_edit_dopp":    {},
	"formation_id":       {},
}

// FieldValue is a tagged value: exactly one arm matching the field's kind is
// set. An all-nil value clears a nullable field.
type FieldValue struct {
	Text *string    `json:"text,omitempty"`
	Date *time.Time `json:"date,omitempty"`
	Ref  *int64     `json:"ref,omitempty"`
}

// ChangeSet is a typed partial update to one staff record.
type ChangeSet map[EditField]FieldValue

// Merge folds incoming into the receiver: same keys are overwritten by the
// new value, disjoint keys are unioned.
func (cs ChangeSet) Merge(incoming ChangeSet) {
	for field, value := range incoming {
		cs[field] = value
	}
}

// Clone returns an independent copy of the change-set.
func (cs ChangeSet) Clone() ChangeSet {
	out := make(ChangeSet, len(cs))
	for field, value := range cs {
		out[field] = value
	}
	return out
}

// Validate checks the change-set against the allowlist, the value kinds and,
// for restricted actors, the target record's per-record permission flags.
func (cs ChangeSet) Validate(target *StaffRecord, elevated bool) error {
	for field, value := range cs {
		if _, forbidden := forbiddenFields[field]; forbidden {
			return fmt.Errorf("field %q cannot be changed through an edit request", field)
		}
		kind, ok := editableFields[field]
		if !ok {
			return fmt.Errorf("field %q is not editable", field)
		}
		if err := value.checkKind(field, kind); err != nil {
			return err
		}
		if elevated {
			continue
		}
		switch field {
		case EditFieldRank:
			if !target.AllowEditRank {
				return fmt.Errorf("rank changes are not permitted for record %s", target.NISNo)
			}
		case EditFieldDOPP:
			if !target.AllowEditDOPP {
				return fmt.Errorf("posting date changes are not permitted for record %s", target.NISNo)
			}
		}
	}
	return nil
}

func (v FieldValue) checkKind(field EditField, kind FieldKind) error {
	switch kind {
	case KindText:
		if v.Date != nil || v.Ref != nil {
			return fmt.Errorf("field %q expects a text value", field)
		}
	case KindDate:
		if v.Text != nil || v.Ref != nil {
			return fmt.Errorf("field %q expects a date value", field)
		}
	case KindRef:
		if v.Text != nil || v.Date != nil {
			return fmt.Errorf("field %q expects a reference value", field)
		}
	}
	return nil
}

// Apply validates and then writes the change-set onto the record. The
// allowlist and denylist are enforced here, inside the core mutation, so no
// calling layer can smuggle a forbidden field through.
func (cs ChangeSet) Apply(target *StaffRecord, elevated bool) error {
	if err := cs.Validate(target, elevated); err != nil {
		return err
	}
	for field, value := range cs {
		switch field {
		case EditFieldSurname:
			if value.Text != nil {
				target.Surname = *value.Text
			}
		case EditFieldOtherNames:
			if value.Text != nil {
				target.OtherNames = *value.Text
			}
		case EditFieldRank:
			if value.Text != nil {
				target.Rank = Rank(*value.Text)
			}
		case EditFieldGender:
			target.Gender = value.Text
		case EditFieldDOFA:
			target.DOFA = value.Date
		case EditFieldDOPA:
			target.DOPA = value.Date
		case EditFieldDOPP:
			target.DOPP = value.Date
		case EditFieldDOB:
			target.DOB = value.Date
		case EditFieldStateID:
			target.StateID = value.Ref
		case EditFieldLGAID:
			target.LGAID = value.Ref
		case EditFieldHomeTown:
			target.HomeTown = value.Text
		case EditFieldQualification:
			target.Qualification = value.Text
		case EditFieldPhoneNo:
			target.PhoneNo = value.Text
		case EditFieldNextOfKin:
			target.NextOfKin = value.Text
		case EditFieldNOKPhone:
			target.NOKPhone = value.Text
		case EditFieldRemark:
			target.Remark = value.Text
		}
	}
	return nil
}

// EditRequest is a proposed, not-yet-applied change to one staff record. At
// most one pending request exists per staff id at any time.
type EditRequest struct {
	ID          int64
	StaffID     int64
	Changes     ChangeSet
	Status      EditRequestStatus
	SubmittedBy string
	SubmittedAt time.Time
	ResolvedBy  *string
	ResolvedAt  *time.Time
}
