package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mechanical Keyboard", "mechanical-keyboard"},
		{"Café au Lait", "cafe-au-lait"},
		{"Über 50% Rabatt!", "uber-50-rabatt"},
		{"  spaced   out  ", "spaced-out"},
		{"USB-C Hub (7-in-1)", "usb-c-hub-7-in-1"},
		{"---", ""},
		{"", ""},
		{"ALLCAPS", "allcaps"},
		{"naïve résumé", "naive-resume"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}
