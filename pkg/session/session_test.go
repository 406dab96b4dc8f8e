package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/inbtp/appariteur/pkg/session"
	"github.com/inbtp/appariteur/pkg/student"
)

func newSession(t *testing.T) *session.Session {
	rows := []student.RawRow{
		{Line: 2, Fields: map[string]string{"nom": "A", "postNom": "A", "sexe": "M"}},
		{Line: 3, Fields: map[string]string{"nom": "B", "sexe": "M"}},
		{Line: 4, Fields: map[string]string{"nom": "C", "postNom": "C", "sexe": "F"}},
	}
	s, err := session.New(zaptest.NewLogger(t), student.ValidateAll(rows, student.Defaults{}))
	require.NoError(t, err)
	return s
}

func ptr(s string) *string { return &s }

func tempIDs(candidates []student.Candidate) []uint64 {
	var ids []uint64
	for _, c := range candidates {
		ids = append(ids, c.TempID)
	}
	return ids
}

func TestNewAssignsTempIDs(t *testing.T) {
	s := newSession(t)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, []uint64{1, 2, 3}, tempIDs(s.Candidates()))
	assert.Equal(t, 3, s.Total())
	assert.Equal(t, 2, s.SelectedCount())
	assert.Equal(t, 1, s.ErrorCount())
}

func TestNewRequiresLog(t *testing.T) {
	s, err := session.New(nil, nil)
	require.EqualError(t, err, "log is required")
	require.Nil(t, s)
}

func TestToggleSelect(t *testing.T) {
	s := newSession(t)

	require.True(t, s.ToggleSelect(2))
	assert.Equal(t, 3, s.SelectedCount())
	require.True(t, s.ToggleSelect(2))
	assert.Equal(t, 2, s.SelectedCount())

	assert.False(t, s.ToggleSelect(42))
}

func TestSelectAll(t *testing.T) {
	s := newSession(t)

	s.SelectAll(false)
	assert.Equal(t, 0, s.SelectedCount())

	s.SelectAll(true)
	assert.Equal(t, s.Total(), s.SelectedCount(), "candidates with defects are selectable too")
}

func TestRemoveNeverReusesIDs(t *testing.T) {
	s := newSession(t)

	require.True(t, s.Remove(3))
	assert.False(t, s.Remove(3))
	assert.Equal(t, []uint64{1, 2}, tempIDs(s.Candidates()))

	s.Append(student.Candidate{Nom: "D"})
	assert.Equal(t, []uint64{1, 2, 4}, tempIDs(s.Candidates()))
}

func TestUpdateDoesNotRevalidate(t *testing.T) {
	s := newSession(t)

	require.True(t, s.Update(2, session.Patch{PostNom: ptr("B"), Email: ptr("b@example.com")}))
	c, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, "B", c.PostNom)
	assert.Equal(t, "b@example.com", c.Email)
	assert.Equal(t, "B", c.Nom, "untouched fields are kept")
	assert.True(t, c.HasError, "edits are not re-validated")

	other, _ := s.Get(1)
	assert.Equal(t, "A", other.PostNom)

	require.True(t, s.Revalidate(2))
	c, _ = s.Get(2)
	assert.False(t, c.HasError)
	assert.False(t, c.Selected)

	assert.False(t, s.Update(42, session.Patch{}))
	assert.False(t, s.Revalidate(42))
}

func TestSelectedIsSnapshot(t *testing.T) {
	s := newSession(t)

	selected := s.Selected()
	require.Equal(t, []uint64{1, 3}, tempIDs(selected))

	before := s.Candidates()
	s.Update(1, session.Patch{Nom: ptr("Z")})
	s.ToggleSelect(3)
	s.Remove(1)

	assert.Equal(t, "A", selected[0].Nom)
	assert.True(t, selected[1].Selected)
	assert.Len(t, before, 3)
	assert.Equal(t, "A", before[0].Nom)
}

func TestFieldPatch(t *testing.T) {
	for _, key := range student.Keys {
		patch, ok := session.FieldPatch(key, "x")
		require.True(t, ok, key)

		s := newSession(t)
		require.True(t, s.Update(1, patch))
		c, _ := s.Get(1)
		assert.Equal(t, "x", c.Field(key), key)
	}

	_, ok := session.FieldPatch("unknown", "x")
	assert.False(t, ok)

	s := newSession(t)
	patch, _ := session.FieldPatch(student.KeyPostNom, "B")
	require.True(t, s.Update(2, patch))
	require.True(t, s.Revalidate(2))
	c, _ := s.Get(2)
	assert.Equal(t, "B", c.PostNom)
	assert.False(t, c.HasError)
}
