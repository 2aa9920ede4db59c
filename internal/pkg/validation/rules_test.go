package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Identifier string `validate:"identifier"`
	Username   string `validate:"username"`
	Status     string `validate:"feestatus"`
	Role       string `validate:"role"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidator(t)

	ok := sample{Identifier: "STU-1234", Username: "jane.doe", Status: "late", Role: "parent"}
	assert.NoError(t, v.Struct(ok))

	bad := sample{Identifier: "-bad id", Username: "x", Status: "overdue", Role: "admin"}
	err := v.Struct(bad)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 4)

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, Describe(fe))
	}
	assert.Contains(t, messages, "Status must be one of: paid, pending, late")
	assert.Contains(t, messages, "Role must be one of: staff, student, parent")
}
