package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCardType(t *testing.T) {
	assert.True(t, ValidCardType(CardTypeDailyAffirmation))
	assert.True(t, ValidCardType(CardTypeWeeklyEmotionMap))
	assert.True(t, ValidCardType(CardTypeWeeklyGratitude))
	assert.True(t, ValidCardType(CardTypeCustom))
	assert.False(t, ValidCardType("monthly_review"))
	assert.False(t, ValidCardType(""))
}

func TestInsightCardContentRoundTrip(t *testing.T) {
	card := &InsightCard{}
	require.NoError(t, card.SetContent(AffirmationContent{Affirmation: "今天也要加油"}))

	content := card.Content()
	assert.Equal(t, "今天也要加油", content["affirmation"])
}

func TestInsightCardContentFallback(t *testing.T) {
	card := &InsightCard{}
	assert.Equal(t, map[string]interface{}{}, card.Content())

	card.ContentJSON = "{broken"
	assert.Equal(t, map[string]interface{}{}, card.Content())
}

func TestInsightCardGratitudeContent(t *testing.T) {
	card := &InsightCard{}
	require.NoError(t, card.SetContent(GratitudeContent{
		Events: []GratitudeEvent{
			{ID: "entry-1", Content: "朋友送了一束花", CreatedAt: "2026-08-17T10:00:00+08:00"},
		},
	}))

	content := card.Content()
	events, ok := content["events"].([]interface{})
	require.True(t, ok)
	require.Len(t, events, 1)
	first := events[0].(map[string]interface{})
	assert.Equal(t, "entry-1", first["id"])
	assert.Equal(t, "朋友送了一束花", first["content"])
}
