package game

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/starwave/config"
	"github.com/user/starwave/internal/economy"
	"github.com/user/starwave/internal/types"
)

func newTestManagerWithConfig(t *testing.T, mutate func(*config.Config)) *CareerManager {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Game.SavePath = filepath.Join(t.TempDir(), "career.json")
	cfg.Game.OfferProbability = 0
	cfg.Game.EventProbability = 0
	if mutate != nil {
		mutate(&cfg)
	}

	cm := NewCareerManager(cfg)
	cm.SetRand(rand.New(rand.NewSource(42)))
	return cm
}

func TestAdvanceWeekOrganicGrowth(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	result, err := cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Settled)
	assert.Equal(t, 1, result.Week)
	assert.Equal(t, int64(1), result.FanGrowth)
	assert.Zero(t, result.StreamGain)

	snap, err := cm.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(101), snap.Player.Fans)
	assert.Equal(t, 1, snap.Week)
}

func TestFourthAdvanceSettles(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	settlements := 0
	for i := 0; i < weeksPerMonth; i++ {
		result, err := cm.AdvanceWeek(context.Background())
		require.NoError(t, err)
		if result.Settled {
			settlements++
			assert.Equal(t, weeksPerMonth-1, i, "settlement must land on the final advance")
		}
	}

	assert.Equal(t, 1, settlements)

	snap, err := cm.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Week)
	assert.Equal(t, 1, snap.MonthIndex)
}

func TestAdvanceWeekWithoutCareer(t *testing.T) {
	cm := newTestManager(t)

	_, err := cm.AdvanceWeek(context.Background())
	assert.ErrorIs(t, err, ErrNoCareer)
}

func TestReleasedSongsAccrueStreams(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	cm.state.Player.Fans = 50_000
	cm.state.Released = append(cm.state.Released, types.Song{
		ID:         "song-1",
		Title:      "Afterglow",
		Quality:    80,
		IsMastered: true,
		Platform:   types.PlatformTikTok,
	})

	result, err := cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	assert.Positive(t, result.StreamGain)

	snap, err := cm.Snapshot()
	require.NoError(t, err)
	song := snap.Released[0]
	assert.Equal(t, result.StreamGain, song.Streams)
	assert.Equal(t, result.StreamGain, snap.MonthStreams)

	// Cumulative streams are revalued at the rate implied by current fans.
	expectedRevenue := economy.SongRevenue(song.Streams, snap.Player.Fans)
	assert.InDelta(t, expectedRevenue, song.Revenue, 0.001)
}

func TestSettlementPaysRoyalties(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	cm.state.Player.Fans = 10_000
	cm.state.Week = weeksPerMonth - 1
	cm.state.Released = append(cm.state.Released, types.Song{
		ID:         "song-1",
		Title:      "Afterglow",
		Quality:    75,
		IsMastered: true,
		Platform:   types.PlatformInstagram,
	})

	fansBefore := cm.state.Player.Fans
	moneyBefore := cm.state.Player.Money
	dateBefore := cm.state.Date

	result, err := cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	require.True(t, result.Settled)
	expected := economy.Royalties(result.StreamGain, fansBefore, 100)
	assert.InDelta(t, expected, result.Royalties, 0.001)

	snap, err := cm.Snapshot()
	require.NoError(t, err)
	assert.InDelta(t, moneyBefore+expected, snap.Player.Money, 0.001)
	assert.Zero(t, snap.MonthStreams)
	assert.Equal(t, 1, snap.Week)
	assert.Equal(t, dateBefore.AddDate(0, 1, 0), snap.Date)
	assert.Equal(t, fansBefore+economy.OrganicFanGrowth(fansBefore, true), snap.Player.Fans)

	require.Len(t, snap.History, 1)
	assert.Equal(t, snap.Player.Fans, snap.History[0].Fans)
}

func TestSettlementCompoundsFollowers(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	cm.state.Week = weeksPerMonth - 1
	for _, platform := range types.Platforms() {
		cm.state.Player.Followers[platform] = 10_000
	}

	_, err := cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	snap, err := cm.Snapshot()
	require.NoError(t, err)
	for _, platform := range types.Platforms() {
		expected := int64(10_000) + int64(10_000*economy.FollowerGrowth[platform])
		assert.Equal(t, expected, snap.Player.Followers[platform], "platform %s", platform)
	}
}

func TestSettlementGeneratesOffer(t *testing.T) {
	cm := newTestManagerWithConfig(t, func(cfg *config.Config) {
		cfg.Game.OfferProbability = 1
	})
	startCareer(t, cm)
	cm.state.Week = weeksPerMonth - 1

	result, err := cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.NewOffer)
	assert.NotEmpty(t, result.NewOffer.ID)

	snap, err := cm.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Offers, 1)
	assert.Equal(t, result.NewOffer.ID, snap.Offers[0].ID)
}

func TestJanuaryAwardSeason(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	st := cm.state
	st.Date = time.Date(2030, time.December, 1, 0, 0, 0, 0, time.UTC)
	st.Week = weeksPerMonth - 1
	st.Player.Fans = 2_000_000
	st.Player.Fame = 6_000_000
	st.Released = []types.Song{
		{ID: "s1", Title: "Afterglow", Quality: 90, IsMastered: true, Platform: types.PlatformYouTube},
		{ID: "s2", Title: "Undertow", Quality: 70, IsMastered: true, Platform: types.PlatformTikTok},
		{ID: "s3", Title: "Stray Signal", Quality: 60, IsMastered: true, Platform: types.PlatformInstagram},
	}

	fameBefore := st.Player.Fame

	result, err := cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	require.True(t, result.Settled)
	require.Len(t, result.NewAwards, 2)

	categories := []string{result.NewAwards[0].Category, result.NewAwards[1].Category}
	assert.Contains(t, categories, "Album of the Year")
	assert.Contains(t, categories, "Artist of the Year")
	assert.Equal(t, "Afterglow", result.NewAwards[0].Reason)
	assert.Equal(t, 2031, result.NewAwards[0].Year)

	snap, err := cm.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Awards, 2)
	assert.Equal(t, fameBefore+2*awardFameBonus, snap.Player.Fame)
	assert.Equal(t, time.January, snap.Date.Month())
	assert.NotEmpty(t, snap.Headlines)
}

func TestNoAwardsOutsideJanuary(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	st := cm.state
	st.Date = time.Date(2030, time.May, 1, 0, 0, 0, 0, time.UTC)
	st.Week = weeksPerMonth - 1
	st.Player.Fame = 6_000_000

	result, err := cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Settled)
	assert.Empty(t, result.NewAwards)
	assert.Empty(t, cm.state.Awards)
}

func TestSettlementEventBlockedByPendingModal(t *testing.T) {
	cm := newTestManagerWithConfig(t, func(cfg *config.Config) {
		cfg.Game.EventProbability = 1
	})
	startCareer(t, cm)

	cm.state.PendingInteraction = &types.FanInteraction{
		Username: "midnight_muse",
		Message:  "your song got me through finals week",
		Options: []types.InteractionOption{
			{Label: "Reply", Result: "They cried.", BonusType: "fans", BonusValue: 100},
			{Label: "Like", Result: "They noticed.", BonusType: "fame", BonusValue: 100},
			{Label: "Ignore", Result: "Nothing happened."},
		},
	}
	cm.state.Week = weeksPerMonth - 1

	result, err := cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Settled)
	assert.Nil(t, result.Event)
	assert.Nil(t, cm.state.PendingEvent)

	// With the modal cleared the next settlement surfaces an event.
	cm.state.PendingInteraction = nil
	cm.state.Week = weeksPerMonth - 1

	result, err = cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.Event)
	assert.Equal(t, result.Event.ID, cm.state.PendingEvent.ID)
}

func TestOfferWindowEvictsOldest(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	for i, id := range []string{"a", "b", "c", "d"} {
		cm.pushOffer(types.SponsoredOffer{ID: id, Brand: "Brand", Payout: float64(i)})
	}

	require.Len(t, cm.state.Offers, types.MaxActiveOffers)
	assert.Equal(t, "d", cm.state.Offers[0].ID)
	assert.Equal(t, "b", cm.state.Offers[2].ID)
}

func TestHeadlineLogCapped(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	for i := 0; i < types.MaxHeadlines+5; i++ {
		cm.pushHeadline("headline")
	}

	assert.Len(t, cm.state.Headlines, types.MaxHeadlines)
}

func TestApplyOutcomeFloors(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	cm.state.Player.Fans = 50
	cm.state.Player.Charisma = 1
	cm.state.Player.Followers[types.PlatformTwitter] = 10

	cm.applyOutcome(types.Outcome{
		FansDelta:     -1000,
		FameDelta:     -1000,
		CharismaDelta: -5,
		FollowerDeltas: map[types.Platform]int64{
			types.PlatformTwitter: -500,
		},
	})

	assert.Zero(t, cm.state.Player.Fans)
	assert.Zero(t, cm.state.Player.Fame)
	assert.Zero(t, cm.state.Player.Charisma)
	assert.Zero(t, cm.state.Player.Followers[types.PlatformTwitter])
}
