package application

import (
	"testing"

	"github.com/bnema/toplap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationsRanksCatalog(t *testing.T) {
	t.Parallel()

	shortlist, err := Recommendations(staticCatalog(testCatalog()), domain.PurposeDesign, 5000)

	require.NoError(t, err)
	assert.Equal(t, 2, shortlist.Total)
	require.Len(t, shortlist.Results, 2)
	assert.Equal(t, "C", shortlist.Results[0].Entry.ID)
	assert.True(t, shortlist.Results[0].Best)
}

func TestRecommendationsNoMatches(t *testing.T) {
	t.Parallel()

	shortlist, err := Recommendations(staticCatalog(testCatalog()), domain.PurposeStudying, 5000)

	require.ErrorIs(t, err, domain.ErrNoMatches)
	assert.True(t, shortlist.Empty())
}

func TestRecommendationsRejectsUnknownPurpose(t *testing.T) {
	t.Parallel()

	_, err := Recommendations(staticCatalog(testCatalog()), domain.Purpose("Cooking"), 5000)

	require.ErrorIs(t, err, domain.ErrUnknownPurpose)
}

func TestRecommendationsWithoutCatalog(t *testing.T) {
	t.Parallel()

	_, err := Recommendations(nil, domain.PurposeGaming, 5000)

	require.ErrorIs(t, err, domain.ErrNoMatches)
}
