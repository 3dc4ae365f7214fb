package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textVal(s string) FieldValue {
	return FieldValue{Text: &s}
}

func dateVal(y, m, d int) FieldValue {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return FieldValue{Date: &t}
}

func refVal(id int64) FieldValue {
	return FieldValue{Ref: &id}
}

func TestChangeSetMerge(t *testing.T) {
	pending := ChangeSet{
		EditFieldSurname: textVal("Okafor"),
		EditFieldPhoneNo: textVal("0801"),
	}
	pending.Merge(ChangeSet{
		EditFieldPhoneNo:  textVal("0802"),
		EditFieldHomeTown: textVal("Enugu"),
	})

	require.Len(t, pending, 3)
	assert.Equal(t, "Okafor", *pending[EditFieldSurname].Text, "disjoint field survives")
	assert.Equal(t, "0802", *pending[EditFieldPhoneNo].Text, "overlapping field takes the new value")
	assert.Equal(t, "Enugu", *pending[EditFieldHomeTown].Text, "new field unions in")
}

func TestChangeSetClone(t *testing.T) {
	original := ChangeSet{EditFieldSurname: textVal("Bello")}
	clone := original.Clone()
	clone[EditFieldSurname] = textVal("changed")
	clone[EditFieldRemark] = textVal("extra")

	assert.Equal(t, "Bello", *original[EditFieldSurname].Text)
	assert.Len(t, original, 1)
}

func TestChangeSetValidate(t *testing.T) {
	tests := []struct {
		name     string
		changes  ChangeSet
		target   StaffRecord
		elevated bool
		wantErr  bool
	}{
		{
			name:    "plain text field passes",
			changes: ChangeSet{EditFieldSurname: textVal("Musa")},
		},
		{
			name:    "forbidden field rejected",
			changes: ChangeSet{"office": textVal("Finance")},
			wantErr: true,
		},
		{
			name:    "forbidden field rejected even for elevated callers",
			changes: ChangeSet{"exit_date": dateVal(2025, 1, 1)},
			elevated: true,
			wantErr:  true,
		},
		{
			name:    "unknown field rejected",
			changes: ChangeSet{"shoe_size": textVal("44")},
			wantErr: true,
		},
		{
			name:    "wrong value kind rejected",
			changes: ChangeSet{EditFieldDOB: textVal("1990-01-01")},
			wantErr: true,
		},
		{
			name:    "ref field with text arm rejected",
			changes: ChangeSet{EditFieldStateID: textVal("Lagos")},
			wantErr: true,
		},
		{
			name:    "rank gated without permission flag",
			changes: ChangeSet{EditFieldRank: textVal(string(RankSI))},
			wantErr: true,
		},
		{
			name:    "rank allowed with permission flag",
			changes: ChangeSet{EditFieldRank: textVal(string(RankSI))},
			target:  StaffRecord{AllowEditRank: true},
		},
		{
			name:     "rank allowed for elevated caller without flag",
			changes:  ChangeSet{EditFieldRank: textVal(string(RankSI))},
			elevated: true,
		},
		{
			name:    "posting date gated without permission flag",
			changes: ChangeSet{EditFieldDOPP: dateVal(2024, 6, 1)},
			wantErr: true,
		},
		{
			name:    "posting date allowed with permission flag",
			changes: ChangeSet{EditFieldDOPP: dateVal(2024, 6, 1)},
			target:  StaffRecord{AllowEditDOPP: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.changes.Validate(&tt.target, tt.elevated)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChangeSetApply(t *testing.T) {
	town := "Kano"
	rec := StaffRecord{
		Surname:  "Old",
		Rank:     RankII,
		HomeTown: &town,
	}
	changes := ChangeSet{
		EditFieldSurname:  textVal("New"),
		EditFieldRank:     textVal(string(RankSI)),
		EditFieldDOB:      dateVal(1980, 3, 15),
		EditFieldStateID:  refVal(12),
		EditFieldHomeTown: {}, // all-nil clears the nullable field
	}

	require.NoError(t, changes.Apply(&rec, true))

	assert.Equal(t, "New", rec.Surname)
	assert.Equal(t, RankSI, rec.Rank)
	require.NotNil(t, rec.DOB)
	assert.Equal(t, 1980, rec.DOB.Year())
	require.NotNil(t, rec.StateID)
	assert.Equal(t, int64(12), *rec.StateID)
	assert.Nil(t, rec.HomeTown)
}

func TestChangeSetApply_InvalidLeavesRecordUntouched(t *testing.T) {
	rec := StaffRecord{Surname: "Keep"}
	changes := ChangeSet{
		EditFieldSurname: textVal("Drop"),
		"role":           textVal("main_admin"),
	}

	assert.Error(t, changes.Apply(&rec, true))
	assert.Equal(t, "Keep", rec.Surname, "a rejected change set must not partially apply")
}
