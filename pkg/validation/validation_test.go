package validation

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Project  string          `json:"project_code" validate:"required,project_code"`
	Contract string          `json:"contract_code" validate:"omitempty,contract_code"`
	ARCode   string          `json:"ar_code" validate:"omitempty,ar_code"`
	Activity string          `json:"activity_code" validate:"omitempty,activity_code"`
	Amount   decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
	Returned decimal.Decimal `json:"returned" validate:"decimal_gte=0"`
}

func TestValidator_Patterns(t *testing.T) {
	valid := func() sample {
		return sample{
			Project:  "E2568_001",
			Contract: "CHR001/2568",
			ARCode:   "ARC001",
			Activity: "1234567890123",
			Amount:   decimal.NewFromInt(1),
			Returned: decimal.Zero,
		}
	}

	tests := []struct {
		name   string
		mutate func(s *sample)
		field  string
	}{
		{name: "valid", mutate: func(s *sample) {}},
		{name: "lowercase project", mutate: func(s *sample) { s.Project = "e2568_001" }, field: "project_code"},
		{name: "short project", mutate: func(s *sample) { s.Project = "E256_001" }, field: "project_code"},
		{name: "missing project", mutate: func(s *sample) { s.Project = "" }, field: "project_code"},
		{name: "contract without slash", mutate: func(s *sample) { s.Contract = "CHR0012568" }, field: "contract_code"},
		{name: "ar code digits", mutate: func(s *sample) { s.ARCode = "ARC01" }, field: "ar_code"},
		{name: "activity with letters", mutate: func(s *sample) { s.Activity = "12345678901AB" }, field: "activity_code"},
		{name: "zero amount", mutate: func(s *sample) { s.Amount = decimal.Zero }, field: "amount"},
		{name: "negative returned", mutate: func(s *sample) { s.Returned = decimal.NewFromFloat(-0.01) }, field: "returned"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)

			err := v.Validate(&s)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := ToFieldErrors(fmt.Errorf("wrapped: %w", err))
			require.Len(t, fields, 1)
			assert.Equal(t, tt.field, fields[0].Field)
			assert.NotEmpty(t, fields[0].Message)
		})
	}
}

func TestIsProjectCode(t *testing.T) {
	assert.True(t, IsProjectCode("E2568_001"))
	assert.False(t, IsProjectCode("E2568-001"))
	assert.Nil(t, ToFieldErrors(nil))
}
