package modirum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeOf(t *testing.T) {
	tests := []struct {
		name string
		pan  string
		want string
	}{
		{name: "visa", pan: "4111111111111111", want: PayMethodVisa},
		{name: "mastercard 5-series", pan: "5500005555555559", want: PayMethodMastercard},
		{name: "mastercard 2-series", pan: "2221000000000009", want: PayMethodMastercard},
		{name: "amex 34", pan: "343434343434343", want: PayMethodAmex},
		{name: "amex 37", pan: "378282246310005", want: PayMethodAmex},
		{name: "diners 30x", pan: "30569309025904", want: PayMethodDiners},
		{name: "diners 36", pan: "36148900647913", want: PayMethodDiners},
		{name: "discover 6011", pan: "6011111111111117", want: PayMethodDiscover},
		{name: "discover 65", pan: "6500000000000002", want: PayMethodDiscover},
		{name: "jcb", pan: "3530111333300000", want: PayMethodJCB},
		{name: "maestro 50", pan: "5018250000000010", want: PayMethodMaestro},
		{name: "maestro 67", pan: "6759649826438453", want: PayMethodMaestro},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SchemeOf(tt.pan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchemeOfRejectsInvalidPANs(t *testing.T) {
	tests := []struct {
		name string
		pan  string
	}{
		{name: "empty", pan: ""},
		{name: "non numeric", pan: "4111-1111-1111-1111"},
		{name: "unrecognized scheme", pan: "1234567890123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SchemeOf(tt.pan)
			assert.Error(t, err)
		})
	}
}
