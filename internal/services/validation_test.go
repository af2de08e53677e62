package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword_RuleOrder(t *testing.T) {
	cases := map[string]string{
		"Ab1!":            msgPasswordLength,
		"abcdefghij1!":    msgPasswordUpper,
		"ABCDEFGHIJ1!":    msgPasswordLower,
		"Abcdefghijk!":    msgPasswordDigit,
		"Abcdefghij12":    msgPasswordSpecial,
		"Abcdefghij1!":    "",
		"short":           msgPasswordLength,
		"Correct Horse 9": "",
	}
	for password, want := range cases {
		assert.Equal(t, want, ValidatePassword(password), password)
	}
}

func TestValidateUsername(t *testing.T) {
	assert.Equal(t, msgUsernameTooShort, ValidateUsername("ab"))
	assert.Equal(t, msgUsernameChars, ValidateUsername("bad-name"))
	assert.Equal(t, msgUsernameChars, ValidateUsername("émile"))
	assert.Equal(t, "", ValidateUsername("good_Name_1"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("dev@example.com"))
	assert.True(t, IsValidEmail("  first.last+tag@sub.example.io "))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("two@@example.com"))
	assert.False(t, IsValidEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "alice@example.com", Fold("  Alice@Example.COM "))
}
