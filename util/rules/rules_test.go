package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"a@b.com",
		"test0@test.com",
		"first.last@example.co.uk",
		"user+tag@sub.domain.org",
	}
	for _, s := range valid {
		require.True(t, IsValidEmail(s), "expected valid: %q", s)
	}

	invalid := []string{
		"",
		"plain",
		"@no-local.com",
		"no-at.com",
		"user@nodot",
		"user@domain.c",
		"user@.com",
		"user@domain.",
		"a b@c.com",
	}
	for _, s := range invalid {
		require.False(t, IsValidEmail(s), "expected invalid: %q", s)
	}
}

func TestIsValidPostalCode(t *testing.T) {
	require.True(t, IsValidPostalCode("K7L 3N6"))
	require.True(t, IsValidPostalCode("A1A 1A1"))

	invalid := []string{
		"",
		"K7L3N6",
		"k7l 3n6",
		"K7L  3N6",
		"K7L 3N",
		"K7L 3N6A",
		"777 3N6",
		"K7L 3NN",
	}
	for _, s := range invalid {
		require.False(t, IsValidPostalCode(s), "expected invalid: %q", s)
	}
}

func TestIsComplexPassword(t *testing.T) {
	require.True(t, IsComplexPassword("Abc#123"))
	require.True(t, IsComplexPassword("Zz!99900"))
	require.True(t, IsComplexPassword("Password22$"))

	require.False(t, IsComplexPassword(""))
	require.False(t, IsComplexPassword("Ab#1"))
	require.False(t, IsComplexPassword("abc#123"))
	require.False(t, IsComplexPassword("ABC#123"))
	require.False(t, IsComplexPassword("Abcd123"))
	require.False(t, IsComplexPassword("123456"))
}

func TestIsValidUsername(t *testing.T) {
	require.True(t, IsValidUsername("abc"))
	require.True(t, IsValidUsername("John Doe"))
	require.True(t, IsValidUsername("u0 42"))
	require.True(t, IsValidUsername(strings.Repeat("x", 19)))
	// length counts characters, not bytes
	require.True(t, IsValidUsername("José Núñez"))
	require.True(t, IsValidUsername(strings.Repeat("é", 19)))

	require.False(t, IsValidUsername(""))
	require.False(t, IsValidUsername("ab"))
	require.False(t, IsValidUsername(strings.Repeat("x", 20)))
	require.False(t, IsValidUsername(strings.Repeat("é", 20)))
	require.False(t, IsValidUsername(" abc"))
	require.False(t, IsValidUsername("abc "))
	require.False(t, IsValidUsername("ab_c"))
}

func TestIsValidTitle(t *testing.T) {
	require.True(t, IsValidTitle("The Title62"))
	require.True(t, IsValidTitle("x"))
	require.True(t, IsValidTitle(strings.Repeat("x", 80)))
	require.True(t, IsValidTitle(strings.Repeat("é", 80)))

	require.False(t, IsValidTitle(""))
	require.False(t, IsValidTitle(strings.Repeat("x", 81)))
	require.False(t, IsValidTitle(strings.Repeat("é", 81)))
	require.False(t, IsValidTitle(" The Title62"))
	require.False(t, IsValidTitle("The Title62 "))
	require.False(t, IsValidTitle("The Tit_le"))
	require.False(t, IsValidTitle("%"))
}
