package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTheoryCatalogLoads(t *testing.T) {
	svc, err := NewTheoryService()
	require.NoError(t, err)

	sections := svc.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "Основы программирования", sections[0].Title)
	require.Len(t, sections[0].Topics, 3)
	assert.Equal(t, "1-2", sections[0].Topics[1].ID)
	assert.Equal(t, "45 мин", sections[0].Topics[1].Duration)
}

func TestParseTheoryRejectsIncompleteSections(t *testing.T) {
	_, err := parseTheory([]byte("- id: \"1\"\n"))
	assert.Error(t, err)

	_, err = parseTheory([]byte("not: [valid"))
	assert.Error(t, err)

	sections, err := parseTheory([]byte("- id: x\n  title: y\n"))
	require.NoError(t, err)
	assert.NotNil(t, sections[0].Topics)
}
