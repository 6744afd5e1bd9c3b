package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/toplap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlannerBuildsAlbumsWhenImagesExist(t *testing.T) {
	t.Parallel()

	messages := MessagesFor(domain.LocaleEnglish, Links{})
	assets := fakeAssets{"B": {"b1.jpg", "b2.jpg", "b3.jpg", "b4.jpg", "b5.jpg", "b6.jpg"}}
	planner := NewPlanner(assets, messages, nil, 0)

	ranked := domain.Recommend(domain.PurposeGaming, 5000, testCatalog())
	shortlist := domain.NewShortlist(domain.PurposeGaming, 5000, ranked, domain.ShortlistSize)

	var plan domain.DeliveryPlan
	planner.Plan(context.Background(), &plan, shortlist)

	require.Len(t, plan.Messages, 4)
	album := plan.Messages[1]
	assert.Equal(t, domain.MessageAlbum, album.Kind)
	require.Len(t, album.Photos, maxImagesPerEntry)
	assert.Equal(t, messages.Card(shortlist.Results[0].Entry), album.Photos[0].Caption)
	assert.Equal(t, domain.FormatHTML, album.Photos[0].Format)
	assert.Empty(t, album.Photos[1].Caption)
	assert.Equal(t, album.Photos[0].Caption, album.Text)

	assert.Equal(t, domain.MessageText, plan.Messages[2].Kind)
	assert.Equal(t, domain.MessageReport, plan.Messages[3].Kind)
	assert.Equal(t, messages.ReportCaption, plan.Messages[3].Caption)
}

func TestPlannerFallsBackToTextWhenLookupFails(t *testing.T) {
	t.Parallel()

	planner := NewPlanner(failingAssets{}, MessagesFor(domain.LocaleArabic, Links{}), nil, 0)
	ranked := domain.Recommend(domain.PurposeDesign, 5000, testCatalog())
	shortlist := domain.NewShortlist(domain.PurposeDesign, 5000, ranked, domain.ShortlistSize)

	var plan domain.DeliveryPlan
	planner.Plan(context.Background(), &plan, shortlist)

	require.Len(t, plan.Messages, 4)
	for _, message := range plan.Messages[1:3] {
		assert.Equal(t, domain.MessageText, message.Kind)
		assert.Equal(t, domain.FormatHTML, message.Format)
	}
	assert.Equal(t, 1, plan.Reports())
}

type failingAssets struct{}

func (failingAssets) Images(_ context.Context, _ string) ([]string, error) {
	return nil, errors.New("disk unavailable")
}
