package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/shopify-color-relay/internal/adapters/logger"
	"github.com/athebyme/shopify-color-relay/internal/domain/models"
)

func newTestDescriptors(table *fakeTable) *DescriptorService {
	return NewDescriptorService(table, "{color}", "{color} Vocabulary", CallPolicy{Timeout: time.Second}, logger.NewNopLogger())
}

func TestLookup_IntegerKeyComparison(t *testing.T) {
	table := newFakeTable()
	table.set("Green", row("Row", "Color"), row("037", "Fern"), row("5.0", "Moss"), row(" 12 ", " Pine "))
	s := newTestDescriptors(table)
	ctx := context.Background()

	word, ok := s.Lookup(ctx, models.Green, 37)
	require.True(t, ok)
	assert.Equal(t, "Fern", word)

	word, ok = s.Lookup(ctx, models.Green, 5)
	require.True(t, ok)
	assert.Equal(t, "Moss", word)

	word, ok = s.Lookup(ctx, models.Green, 12)
	require.True(t, ok)
	assert.Equal(t, "Pine", word)

	_, ok = s.Lookup(ctx, models.Green, 38)
	assert.False(t, ok)
}

func TestLookup_Deterministic(t *testing.T) {
	table := newFakeTable()
	table.set("Blue", row("1", "Ocean"), row("2", "Sky"))
	s := newTestDescriptors(table)

	first, _ := s.Lookup(context.Background(), models.Blue, 2)
	for i := 0; i < 5; i++ {
		again, ok := s.Lookup(context.Background(), models.Blue, 2)
		assert.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestLookup_FailureIsAbsent(t *testing.T) {
	table := newFakeTable()
	table.failing["Red"] = true
	s := newTestDescriptors(table)

	_, ok := s.Lookup(context.Background(), models.Red, 1)
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	table := newFakeTable()
	table.set("Green", row("1", "Fern"), row("2", "Moss"), row("3", ""))
	s := newTestDescriptors(table)
	ctx := context.Background()

	assert.Equal(t, "Fern Moss", s.Describe(ctx, models.Green, 1, 2).Words)
	assert.Equal(t, "Fern Fern", s.Describe(ctx, models.Green, 1, 1).Words)
	assert.Equal(t, "Moss", s.Describe(ctx, models.Green, 37, 2).Words)
	assert.Equal(t, "Fern", s.Describe(ctx, models.Green, 1, 3).Words)

	// оба поиска пусты
	res := s.Describe(ctx, models.Green, 37, 99)
	assert.False(t, res.First.Found)
	assert.False(t, res.Second.Found)
	assert.Equal(t, models.UnknownDescriptor, res.Words)
}

func TestJoinDescriptors_UnknownOnlyWhenBothAbsent(t *testing.T) {
	found := models.Descriptor{Word: "Fern", Found: true}
	absent := models.Descriptor{}

	assert.Equal(t, "Fern", JoinDescriptors(found, absent))
	assert.Equal(t, "Fern", JoinDescriptors(absent, found))
	assert.Equal(t, "Fern Fern", JoinDescriptors(found, found))
	assert.Equal(t, models.UnknownDescriptor, JoinDescriptors(absent, absent))
	assert.Equal(t, models.UnknownDescriptor, JoinDescriptors(models.Descriptor{Found: true}, absent))
}

func TestSynonyms_UsesVocabularyTable(t *testing.T) {
	table := newFakeTable()
	table.set("Blue Vocabulary", row("Row", "Color"), row("1", "Teal Cobalt"), row("2", "Indigo"))
	s := newTestDescriptors(table)

	words, err := s.Synonyms(context.Background(), models.Blue)
	require.NoError(t, err)
	assert.Equal(t, []string{"teal", "cobalt", "indigo"}, words)

	table.failing["Red Vocabulary"] = true
	_, err = s.Synonyms(context.Background(), models.Red)
	assert.Error(t, err)
}

func TestParseRowKey(t *testing.T) {
	tests := []struct {
		raw  string
		want models.RowKey
		ok   bool
	}{
		{"37", 37, true},
		{"037", 37, true},
		{" 5 ", 5, true},
		{"37.0", 37, true},
		{"37.5", 0, false},
		{"Row", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseRowKey(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "Green", TableName("{color}", models.Green))
	assert.Equal(t, "colors_Green!A:B", TableName("colors_{color}!A:B", models.Green))
}
