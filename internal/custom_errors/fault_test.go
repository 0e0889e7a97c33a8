package custom_errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feed-service/internal/custom_errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		conditions []custom_errors.Condition
		wantData   []custom_errors.FieldMessage
	}{
		{
			name: "no failures",
			conditions: []custom_errors.Condition{
				custom_errors.When(false, "title"),
				custom_errors.When(false, "content"),
			},
			wantData: nil,
		},
		{
			name: "only failing conditions are reported",
			conditions: []custom_errors.Condition{
				custom_errors.When(true, "title"),
				custom_errors.When(false, "content"),
			},
			wantData: []custom_errors.FieldMessage{{Msg: "title"}},
		},
		{
			name: "all failures are aggregated in order",
			conditions: []custom_errors.Condition{
				custom_errors.When(true, "title"),
				custom_errors.When(true, "content"),
				custom_errors.When(true, "image"),
			},
			wantData: []custom_errors.FieldMessage{{Msg: "title"}, {Msg: "content"}, {Msg: "image"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := custom_errors.Validate(tt.conditions...)
			if tt.wantData == nil {
				assert.NoError(t, err)
				return
			}

			var validationErr *custom_errors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, http.StatusUnprocessableEntity, validationErr.StatusCode())
			assert.Equal(t, "Validation Failed", validationErr.Error())
			assert.Equal(t, tt.wantData, validationErr.Data())
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want custom_errors.Fault
	}{
		{
			name: "operational error keeps status",
			err:  custom_errors.New("Please login", http.StatusUnauthorized),
			want: custom_errors.Fault{Status: http.StatusUnauthorized, Message: "Please login"},
		},
		{
			name: "wrapped operational error",
			err:  fmt.Errorf("update: %w", custom_errors.New("Authorization Error", http.StatusForbidden)),
			want: custom_errors.Fault{Status: http.StatusForbidden, Message: "Authorization Error"},
		},
		{
			name: "operational error without status defaults to 500",
			err:  custom_errors.New("boom", 0),
			want: custom_errors.Fault{Status: http.StatusInternalServerError, Message: "boom"},
		},
		{
			name: "plain error is hidden behind 500",
			err:  errors.New("connection reset"),
			want: custom_errors.Fault{Status: http.StatusInternalServerError, Message: "Internal server error"},
		},
		{
			name: "validation error carries data",
			err:  custom_errors.Validate(custom_errors.When(true, "Invalid E-mail")),
			want: custom_errors.Fault{
				Status:  http.StatusUnprocessableEntity,
				Message: "Validation Failed",
				Data:    []custom_errors.FieldMessage{{Msg: "Invalid E-mail"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, custom_errors.Normalize(tt.err))
		})
	}
}
