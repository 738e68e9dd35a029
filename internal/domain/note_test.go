package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoteType(t *testing.T) {
	for _, s := range []string{"markdown", "code", "mixed"} {
		nt, err := ParseNoteType(s)
		require.NoError(t, err)
		assert.Equal(t, NoteType(s), nt)
	}

	_, err := ParseNoteType("video")
	assert.Error(t, err)
	_, err = ParseNoteType("")
	assert.Error(t, err)
}

func TestNoteType_HasCode(t *testing.T) {
	assert.False(t, NoteTypeMarkdown.HasCode())
	assert.True(t, NoteTypeCode.HasCode())
	assert.True(t, NoteTypeMixed.HasCode())
}

func TestProject_TagsDeduplicatesAcrossNotes(t *testing.T) {
	infra := &Tag{Syncable: Syncable{ID: "tag-1"}, Name: "infra"}
	db := &Tag{Syncable: Syncable{ID: "tag-2"}, Name: "db"}

	p := &Project{Notes: []*Note{
		{Tags: []*Tag{infra, db}},
		{Tags: []*Tag{db}},
		{},
	}}

	assert.Equal(t, []*Tag{infra, db}, p.Tags())
}

func TestSyncResult_Counts(t *testing.T) {
	r := &SyncResult{}
	assert.True(t, r.OK())

	r.Succeeded(ItemSummary{ProjectName: "alpha"})
	r.Failed(ItemError{Index: 1, Project: "beta", Error: "boom"})

	assert.False(t, r.OK())
	assert.Equal(t, 1, r.Synced())
	assert.Equal(t, 1, r.FailedCount())
}
