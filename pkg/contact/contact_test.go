package contact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "joão da silva", "João Da Silva"},
		{"uppercase", "JOÃO DA SILVA", "João Da Silva"},
		{"mixed", "jOÃo Da sILVA", "João Da Silva"},
		{"surrounding whitespace", "  maria souza  ", "Maria Souza"},
		{"internal spacing preserved", "joão  da silva", "João  Da Silva"},
		{"single token", "ana", "Ana"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StandardizeName(tt.input))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"ab@cd", true},
		{"a@b", false}, // trimmed length 3, not > 3
		{"  a@b  ", false},
		{"no-at-sign", false},
		{"", false},
		{"user@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateEmail(tt.email))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"ddd only", "11", "11"},
		{"partial", "11999", "(11) 999"},
		{"seven digits", "1199999", "(11) 99999"},
		{"landline", "1133334444", "(11) 33334-444"},
		{"mobile", "11999998888", "(11) 99999-8888"},
		{"already masked", "(11) 99999-8888", "(11) 99999-8888"},
		{"with noise", "+55 (11) 99999-8888", "(55) 11999-9988"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPhone(tt.input))
		})
	}
}

func TestFormatPhone_Idempotent(t *testing.T) {
	inputs := []string{"", "1", "11", "119", "1199999", "1133334444", "11999998888"}
	for _, in := range inputs {
		once := FormatPhone(in)
		assert.Equal(t, once, FormatPhone(once), "input %q", in)
	}
}

func TestFormatPhone_TruncatesPastElevenDigits(t *testing.T) {
	long := strings.Repeat("123456789", 3) // 27 digits
	got := FormatPhone(long)
	assert.Equal(t, "(12) 34567-8912", got)
	assert.Len(t, DigitsOnly(got), 11)
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"1133334444", true},
		{"11999998888", true},
		{"(11) 99999-8888", true},
		{"119999988", false},
		{"", false},
		{"abc", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidatePhone(tt.phone), "phone %q", tt.phone)
	}
}

// ValidatePhone(FormatPhone(s)) must accept exactly the inputs whose digit
// count is 10 or 11; the mask itself never changes the verdict.
func TestValidatePhone_ComposesWithFormat(t *testing.T) {
	for n := 0; n <= 15; n++ {
		digits := strings.Repeat("9", n)
		want := n == 10 || n == 11
		assert.Equal(t, want, ValidatePhone(FormatPhone(digits)), "%d digits", n)
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "5511999998888", DigitsOnly("+55 (11) 99999-8888"))
	assert.Equal(t, "", DigitsOnly("abc"))
}

func TestFullNameTokens(t *testing.T) {
	assert.Equal(t, 1, FullNameTokens(""))
	assert.Equal(t, 1, FullNameTokens("ana"))
	assert.Equal(t, 2, FullNameTokens(" ana souza "))
	assert.Equal(t, 3, FullNameTokens("joão  da")) // empty token counts, as on the page
}
