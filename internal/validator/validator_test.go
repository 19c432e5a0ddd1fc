package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Username    string `json:"username" validate:"required,min=3"`
	Email       string `json:"email" validate:"required,email"`
	AccountType string `json:"accountType" validate:"required,is-registrable-account-type"`
}

type polygonsInput struct {
	Polygons []json.RawMessage `json:"polygons" validate:"dive,is-json-object"`
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&registerInput{Username: "al", Email: "nope", AccountType: "captain"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be at least 3 items/characters long", vErr.Errors["username"])
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "Must be one of: client, pilot", vErr.Errors["accountType"])
}

func TestValidate_AccountTypes(t *testing.T) {
	v := New()
	for _, accountType := range []string{"client", "pilot"} {
		assert.NoError(t, v.Validate(&registerInput{Username: "alice", Email: "a@x.io", AccountType: accountType}))
	}

	err := v.Validate(&registerInput{Username: "alice", Email: "a@x.io", AccountType: "admin"})
	require.Error(t, err)
	assert.Equal(t, "Must be one of: client, pilot", err.(*ValidationError).Errors["accountType"])
}

func TestValidate_PolygonsMustBeObjects(t *testing.T) {
	v := New()

	ok := polygonsInput{Polygons: []json.RawMessage{
		json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`),
	}}
	assert.NoError(t, v.Validate(&ok))

	bad := polygonsInput{Polygons: []json.RawMessage{json.RawMessage(`[1,2]`), json.RawMessage(`"x"`)}}
	assert.Error(t, v.Validate(&bad))
}

func TestIsJSONObject(t *testing.T) {
	assert.True(t, IsJSONObject([]byte(` {"a":1}`)))
	assert.False(t, IsJSONObject([]byte(`{"a":`)))
	assert.False(t, IsJSONObject([]byte(`null`)))
	assert.False(t, IsJSONObject(nil))
}
