package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
)

func TestRegisterRequest_ToInput(t *testing.T) {
	req := RegisterRequest{
		entity.FieldFirstName:    "Jane",
		entity.FieldAddressLine1: "1 Main St",
		entity.FieldRole:         "ADMIN",
	}

	input, err := req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, "Jane", input.FirstName)
	assert.Equal(t, "1 Main St", input.AddressLine1)
	assert.Equal(t, entity.RoleAdmin, input.Role)
	// omitted fields keep the form defaults
	assert.Equal(t, "KWD", input.PreferredCurrency)
}

func TestRegisterRequest_ToInput_UnknownField(t *testing.T) {
	_, err := RegisterRequest{"line1": "1 Main St"}.ToInput()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line1")
}
