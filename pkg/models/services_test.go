package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceFieldsValidate(t *testing.T) {
	tests := []struct {
		name    string
		fields  ServiceFields
		wantErr error
	}{
		{
			name:   "valid fields",
			fields: ServiceFields{Name: "Main Database", Type: TypeDatabase, Status: StatusOnline},
		},
		{
			name:    "missing name",
			fields:  ServiceFields{Type: TypeAPI, Status: StatusOnline},
			wantErr: errNameRequired,
		},
		{
			name:    "unknown type",
			fields:  ServiceFields{Name: "x", Type: "mainframe", Status: StatusOnline},
			wantErr: errInvalidType,
		},
		{
			name:    "unknown status",
			fields:  ServiceFields{Name: "x", Type: TypeCache, Status: "flapping"},
			wantErr: errInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fields.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServicePatchApply(t *testing.T) {
	rt := int64(120)
	svc := Service{
		ID:           "2",
		Name:         "Main Database",
		Type:         TypeDatabase,
		Status:       StatusOnline,
		URL:          "postgres://db.monitocorp.com:5432",
		ResponseTime: &rt,
	}

	status := StatusOffline
	desc := "primary postgres"
	patch := ServicePatch{Status: &status, Description: &desc}
	patch.Apply(&svc)

	assert.Equal(t, StatusOffline, svc.Status)
	assert.Equal(t, "primary postgres", svc.Description)

	// Untouched fields keep their values.
	assert.Equal(t, "Main Database", svc.Name)
	assert.Equal(t, TypeDatabase, svc.Type)
	assert.Equal(t, "postgres://db.monitocorp.com:5432", svc.URL)
	assert.Equal(t, &rt, svc.ResponseTime)
}

func TestServicePatchValidate(t *testing.T) {
	empty := ""
	bad := ServiceType("mainframe")

	assert.NoError(t, (&ServicePatch{}).Validate())
	assert.ErrorIs(t, (&ServicePatch{Name: &empty}).Validate(), errNameRequired)
	assert.ErrorIs(t, (&ServicePatch{Type: &bad}).Validate(), errInvalidType)
}
