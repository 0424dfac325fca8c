package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	trainings := c.Trainings()
	require.Len(t, trainings, 4)
	assert.Equal(t, "Introdução ao React", trainings[0].Title)
	assert.Equal(t, "https://drive.google.com/uc?export=download&id=1234567890abcdef", trainings[0].DownloadLink)

	deliveries := c.Deliveries()
	require.Len(t, deliveries, 6)
	for _, d := range deliveries {
		assert.Empty(t, d.Files, "the category list omits files")
	}

	d, ok := c.Delivery("relatorios")
	require.True(t, ok)
	assert.Equal(t, "Relatórios", d.Name)
	assert.Len(t, d.Files, 2)

	_, ok = c.Delivery("nope")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Empty(t, c.Search("  "))

	res := c.Search("typescript")
	require.Len(t, res, 1)
	assert.Equal(t, KindTraining, res[0].Kind)
	assert.Equal(t, "trainings", res[0].Section)

	res = c.Search("TEMPLATE")
	require.Len(t, res, 2)
	for _, r := range res {
		assert.Equal(t, KindDelivery, r.Kind)
		assert.Equal(t, "Templates", r.Category)
	}
}

func TestLoadRejectsDuplicateDelivery(t *testing.T) {
	_, err := Load([]byte("deliveries:\n  - id: a\n    name: A\n  - id: a\n    name: B\n"))
	assert.Error(t, err)

	_, err = Load([]byte("trainings: [oops"))
	assert.Error(t, err)
}
