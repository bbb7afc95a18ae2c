package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanyahukum/tanya/internal/models"
)

func TestAppendAssignsPositions(t *testing.T) {
	c := &models.Conversation{}

	first := c.Append(models.RoleUser, "halo")
	second := c.Append(models.RoleAssistant, "halo juga")
	third := c.AppendHidden("catatan sistem")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, 2, third.Position)
	assert.Len(t, c.Turns, 3)
}

func TestAppendHiddenIsSystem(t *testing.T) {
	c := &models.Conversation{}
	turn := c.AppendHidden("catatan")

	assert.Equal(t, models.RoleSystem, turn.Role)
	assert.True(t, turn.Hidden)
}

func TestPendingLifecycle(t *testing.T) {
	c := &models.Conversation{}

	c.SetPending("UU-13-2003.pdf")
	require.NotNil(t, c.Pending)
	assert.Equal(t, "UU-13-2003.pdf", c.Pending.Document)

	// A second request while one is pending is ignored
	c.SetPending("UU-40-2007.pdf")
	assert.Equal(t, "UU-13-2003.pdf", c.Pending.Document)

	c.ResolvePending(true)
	assert.Nil(t, c.Pending)

	resolution := c.Turns[len(c.Turns)-1]
	assert.Equal(t, models.RoleSystem, resolution.Role)
	assert.True(t, resolution.Hidden)
	assert.Contains(t, resolution.Content, models.RequestMarker)
	assert.Contains(t, resolution.Content, "UU-13-2003.pdf")
	assert.Contains(t, resolution.Content, "disetujui")
}

func TestResolveRejected(t *testing.T) {
	c := &models.Conversation{}
	c.SetPending("UU-1.pdf")
	c.ResolvePending(false)

	resolution := c.Turns[len(c.Turns)-1]
	assert.Contains(t, resolution.Content, "ditolak")
}

func TestResolveWithoutPendingIsNoop(t *testing.T) {
	c := &models.Conversation{}
	c.ResolvePending(true)
	assert.Empty(t, c.Turns)
}

func TestSetPendingEmptyIsNoop(t *testing.T) {
	c := &models.Conversation{}
	c.SetPending("")
	assert.Nil(t, c.Pending)
}
