package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserValidation(t *testing.T) {
	assert.NoError(t, (&User{Username: "admin"}).Validate())
	assert.Error(t, (&User{Username: "ab"}).Validate())
	assert.Error(t, (&User{Username: strings.Repeat("u", 151)}).Validate())

	var ve *ValidationError
	require.True(t, errors.As((&User{}).Validate(), &ve))
	assert.Equal(t, "This field is required.", ve.Fields["username"])
}

func TestUserPassword(t *testing.T) {
	user := &User{Username: "admin"}
	assert.False(t, user.CheckPassword("anything"), "no hash set yet")

	err := user.SetPassword("short")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "password")

	require.NoError(t, user.SetPassword("correct horse"))
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, user.CheckPassword("correct horse"))
	assert.False(t, user.CheckPassword("wrong horse"))
}

func TestValidationErrorMessage(t *testing.T) {
	ve := NewValidationError("title", "This field is required.")
	ve.Add("text", "This field is required.")
	ve.Add("title", "ignored")

	assert.Equal(t, "This field is required.", ve.Fields["title"])
	assert.Equal(t, "validation failed: text: This field is required.; title: This field is required.", ve.Error())
}
