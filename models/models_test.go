package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentState(t *testing.T) {
	c := &Comment{}
	assert.Equal(t, CommentActive, c.State())
	assert.Equal(t, "active", c.State().String())

	c.IsDeleted = true
	assert.Equal(t, CommentDeleted, c.State())
	assert.Equal(t, "deleted", c.State().String())
}

func TestCommentJSONNeverCarriesToken(t *testing.T) {
	c := Comment{ID: 1, PersonID: 2, Text: "hi", EditToken: "secret", IsDeleted: true}
	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "editToken")
	assert.NotContains(t, fields, "EditToken")
	assert.NotContains(t, fields, "isDeleted")
	assert.NotContains(t, string(raw), "secret")
}

func TestPersonWithCountJSON(t *testing.T) {
	p := PersonWithCount{Person: Person{ID: 3, Name: "Alice", Year: 2024}, CommentCount: 7}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, float64(3), fields["id"])
	assert.Equal(t, float64(7), fields["commentCount"])
	assert.NotContains(t, fields, "comments")
}
