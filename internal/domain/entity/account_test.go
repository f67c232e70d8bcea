package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got)

	for _, in := range []string{"", "not-an-email", "Alice <alice@example.com>"} {
		_, err := NormalizeEmail(in)
		assert.Error(t, err, in)
	}
}

func TestValidateName(t *testing.T) {
	got, err := ValidateName("  alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	_, err = ValidateName("   ")
	assert.Error(t, err)

	_, err = ValidateName(strings.Repeat("я", 65))
	assert.Error(t, err)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("correct-horse"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestValidateCommentText(t *testing.T) {
	got, err := ValidateCommentText("\n  nice article \n")
	require.NoError(t, err)
	assert.Equal(t, "nice article", got)

	_, err = ValidateCommentText(" \t ")
	assert.Error(t, err)

	_, err = ValidateCommentText(strings.Repeat("ж", MaxCommentLength))
	assert.NoError(t, err)

	_, err = ValidateCommentText(strings.Repeat("ж", MaxCommentLength+1))
	assert.Error(t, err)
}
