package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/starwave/internal/economy"
	"github.com/user/starwave/internal/types"
)

func fiveTaps(score float64) []float64 {
	return []float64{score, score, score, score, score}
}

func TestDraftSongChargesStudioRent(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	moneyBefore := cm.state.Player.Money

	song, err := cm.DraftSong(context.Background(), DraftInput{Title: "Afterglow"})
	require.NoError(t, err)

	assert.Equal(t, "Afterglow", song.Title)
	assert.Equal(t, "pop", song.Genre, "genre defaults to the artist's genre")
	assert.NotEmpty(t, song.Lyrics)
	assert.Zero(t, song.Quality)
	assert.False(t, song.IsMastered)

	snap, err := cm.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Unreleased, 1)
	assert.Equal(t, moneyBefore-cm.cfg.Game.StudioRent, snap.Player.Money)
}

func TestDraftSongSessionExtras(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	moneyBefore := cm.state.Player.Money

	song, err := cm.DraftSong(context.Background(), DraftInput{
		Title:          "Undertow",
		Genre:          "r&b",
		Ghostwriter:    true,
		FeaturedArtist: "Jules Vane",
		FeaturedFame:   2_000_000,
	})
	require.NoError(t, err)

	assert.True(t, song.Ghostwriter)
	assert.Equal(t, "Jules Vane", song.FeaturedArtist)

	cost := cm.cfg.Game.StudioRent + cm.cfg.Game.GhostwriterFee + cm.cfg.Game.FeatureFee
	assert.Equal(t, moneyBefore-cost, cm.state.Player.Money)
}

func TestDraftSongInsufficientFunds(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	cm.state.Player.Money = 100

	_, err := cm.DraftSong(context.Background(), DraftInput{Title: "Afterglow"})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Rejection must leave state untouched.
	assert.Equal(t, float64(100), cm.state.Player.Money)
	assert.Empty(t, cm.state.Unreleased)
}

func TestDraftSongRequiresTitle(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.DraftSong(context.Background(), DraftInput{Title: "   "})
	assert.Error(t, err)
}

func TestMasterSongSetsQuality(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.DraftSong(context.Background(), DraftInput{Title: "Afterglow"})
	require.NoError(t, err)

	song, err := cm.MasterSong(context.Background(), "Afterglow", fiveTaps(90))
	require.NoError(t, err)

	assert.True(t, song.IsMastered)
	assert.Greater(t, song.Quality, 0)
	assert.LessOrEqual(t, song.Quality, 100)

	require.Len(t, cm.state.Unreleased, 1)
	assert.True(t, cm.state.Unreleased[0].IsMastered)
}

func TestMasterSongRequiresFullSession(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.DraftSong(context.Background(), DraftInput{Title: "Afterglow"})
	require.NoError(t, err)

	_, err = cm.MasterSong(context.Background(), "Afterglow", []float64{90, 90})
	assert.ErrorIs(t, err, ErrSessionIncomplete)
}

func TestMasterSongUnknownTitle(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.MasterSong(context.Background(), "Nope", fiveTaps(50))
	assert.ErrorIs(t, err, ErrSongNotFound)
}

func TestReleaseSongFullFlow(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)
	cm.state.Player.Fans = 10_000

	_, err := cm.DraftSong(context.Background(), DraftInput{Title: "Afterglow"})
	require.NoError(t, err)
	mastered, err := cm.MasterSong(context.Background(), "Afterglow", fiveTaps(85))
	require.NoError(t, err)

	fansBefore := cm.state.Player.Fans
	fameBefore := cm.state.Player.Fame
	moneyBefore := cm.state.Player.Money

	result, err := cm.ReleaseSong(context.Background(), mastered.ID, types.PlatformTikTok)
	require.NoError(t, err)

	assert.Equal(t, economy.ReleaseFameGain(mastered.Quality, types.PlatformTikTok), result.FameGain)
	assert.Positive(t, result.FanGain)
	assert.NotEmpty(t, result.Reception)
	assert.NotEmpty(t, result.Headline)

	snap, err := cm.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Unreleased)
	require.Len(t, snap.Released, 1)

	released := snap.Released[0]
	assert.Equal(t, types.PlatformTikTok, released.Platform)
	assert.Equal(t, snap.Date, released.ReleaseDate)

	assert.Equal(t, fansBefore+result.FanGain, snap.Player.Fans)
	assert.Equal(t, fameBefore+result.FameGain, snap.Player.Fame)
	assert.Equal(t, moneyBefore-cm.cfg.Game.ReleaseFee, snap.Player.Money)
	assert.Equal(t, economy.FollowerGain(result.FanGain), snap.Player.Followers[types.PlatformTikTok])

	require.NotEmpty(t, snap.Posts)
	post := snap.Posts[0]
	assert.Equal(t, "release", post.Kind)
	assert.NotEmpty(t, post.Comments)
	assert.Equal(t, result.FanGain, post.Impact.Fans)

	require.NotEmpty(t, snap.Headlines)
	assert.Equal(t, result.Headline, snap.Headlines[0])
}

func TestReleaseSongYouTubeDoublesFans(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)
	cm.state.Player.Fans = 10_000
	cm.state.Player.Money = 100_000

	cm.state.Unreleased = append(cm.state.Unreleased, types.Song{
		ID: "s1", Title: "Afterglow", Quality: 80, IsMastered: true,
	})

	moneyBefore := cm.state.Player.Money

	result, err := cm.ReleaseSong(context.Background(), "s1", types.PlatformYouTube)
	require.NoError(t, err)

	base := economy.FallbackSongImpact(80, 10_000)
	assert.Equal(t, base*2, result.FanGain)
	assert.Equal(t, moneyBefore-cm.cfg.Game.VideoFee, cm.state.Player.Money)
}

func TestReleaseRequiresMastered(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	draft, err := cm.DraftSong(context.Background(), DraftInput{Title: "Afterglow"})
	require.NoError(t, err)

	_, err = cm.ReleaseSong(context.Background(), draft.ID, types.PlatformTikTok)
	assert.ErrorIs(t, err, ErrNotMastered)
}

func TestReleaseUnknownPlatform(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.ReleaseSong(context.Background(), "s1", types.Platform("myspace"))
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestReleaseUnknownSong(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.ReleaseSong(context.Background(), "missing", types.PlatformTikTok)
	assert.ErrorIs(t, err, ErrSongNotFound)
}

func TestProduceMusicVideo(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)
	cm.state.Player.Fans = 10_000
	cm.state.Player.Money = 100_000
	cm.state.Released = append(cm.state.Released, types.Song{
		ID: "s1", Title: "Afterglow", Quality: 80, IsMastered: true, Platform: types.PlatformTikTok,
	})

	fansBefore := cm.state.Player.Fans
	fameBefore := cm.state.Player.Fame
	moneyBefore := cm.state.Player.Money

	result, err := cm.ProduceMusicVideo(context.Background(), "s1")
	require.NoError(t, err)

	base := economy.FallbackSongImpact(80, 10_000)
	assert.Equal(t, base*2, result.FanGain)
	assert.Equal(t, int64(80*150), result.FameGain)

	assert.Equal(t, fansBefore+result.FanGain, cm.state.Player.Fans)
	assert.Equal(t, fameBefore+result.FameGain, cm.state.Player.Fame)
	assert.Equal(t, moneyBefore-cm.cfg.Game.MusicVideoFee, cm.state.Player.Money)
	assert.True(t, cm.state.Released[0].IsMusicVideo)

	require.NotEmpty(t, cm.state.Posts)
	assert.Equal(t, "video", cm.state.Posts[0].Kind)
	assert.NotEmpty(t, cm.state.Posts[0].VideoTitle)

	_, err = cm.ProduceMusicVideo(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrAlreadyMusicVideo)
}

func TestPublishPostTrendingBoost(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)
	cm.state.Player.Fans = 10_000
	cm.state.Player.Followers[types.PlatformInstagram] = 50_000
	cm.state.Trending = []string{"#StudioLife", "#NewMusicFriday"}

	post, err := cm.PublishPost(context.Background(), types.PlatformInstagram, "Back in the booth #studiolife")
	require.NoError(t, err)

	expected := economy.PostImpact(types.PlatformInstagram, 50_000, 10_000, cm.state.Player.Charisma, 1)
	assert.Equal(t, expected.Fans, post.Impact.Fans)
	assert.Equal(t, "post", post.Kind)
	assert.Equal(t, post.ID, cm.state.Posts[0].ID)
}

func TestPublishPostRequiresContent(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.PublishPost(context.Background(), types.PlatformTwitter, "  ")
	assert.Error(t, err)
}

func TestAcceptOffer(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)
	cm.state.Player.Charisma = 3

	cm.pushOffer(types.SponsoredOffer{
		ID:              "offer-1",
		Brand:           "GlowWater",
		Payout:          2500,
		Requirement:     "Post a story with the bottle.",
		CharismaPenalty: 5,
	})

	moneyBefore := cm.state.Player.Money

	offer, err := cm.AcceptOffer("offer-1")
	require.NoError(t, err)

	assert.Equal(t, "GlowWater", offer.Brand)
	assert.Equal(t, moneyBefore+2500, cm.state.Player.Money)
	assert.Zero(t, cm.state.Player.Charisma, "charisma floors at zero")
	assert.Empty(t, cm.state.Offers)

	require.NotEmpty(t, cm.state.Posts)
	assert.Equal(t, "sponsored", cm.state.Posts[0].Kind)
}

func TestAcceptOfferNotFound(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.AcceptOffer("missing")
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestSignLabelFameGate(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.SignLabel("neon-city")
	assert.ErrorIs(t, err, ErrNotEnoughFame)
	assert.Empty(t, cm.state.Player.LabelID)

	cm.state.Player.Fame = 600_000
	moneyBefore := cm.state.Player.Money

	label, err := cm.SignLabel("neon-city")
	require.NoError(t, err)

	assert.Equal(t, "Neon City Records", label.Name)
	assert.Equal(t, "neon-city", cm.state.Player.LabelID)
	assert.Equal(t, moneyBefore+label.SigningBonus, cm.state.Player.Money)
	assert.NotEmpty(t, cm.state.Headlines)

	_, err = cm.SignLabel("neon-city")
	assert.ErrorIs(t, err, ErrAlreadySigned)
}

func TestSignLabelUnknown(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	_, err := cm.SignLabel("missing")
	assert.ErrorIs(t, err, ErrLabelNotFound)
}

func TestSignedLabelSplitsRoyalties(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)
	cm.state.Player.Fans = 10_000
	cm.state.Player.LabelID = "neon-city"
	cm.state.Week = weeksPerMonth - 1
	cm.state.Released = append(cm.state.Released, types.Song{
		ID: "s1", Title: "Afterglow", Quality: 75, IsMastered: true, Platform: types.PlatformTikTok,
	})

	fansBefore := cm.state.Player.Fans

	result, err := cm.AdvanceWeek(context.Background())
	require.NoError(t, err)

	require.True(t, result.Settled)
	expected := economy.Royalties(result.StreamGain, fansBefore, 70)
	assert.InDelta(t, expected, result.Royalties, 0.001)
}

func TestResolveEventFixedOutcome(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	cm.state.PendingEvent = &types.CareerEvent{
		ID:    "test-event",
		Title: "Test",
		Options: []types.EventOption{
			{
				Label:         "Take it",
				SuccessChance: 1.0,
				Success:       types.Outcome{Text: "Done.", FansDelta: 1000, MoneyDelta: 500},
			},
			{
				Label:         "Pass",
				SuccessChance: 1.0,
				Success:       types.Outcome{Text: "Passed."},
			},
		},
	}

	fansBefore := cm.state.Player.Fans
	moneyBefore := cm.state.Player.Money

	outcome, err := cm.ResolveEvent(0)
	require.NoError(t, err)

	assert.Equal(t, "Done.", outcome.Text)
	assert.Equal(t, fansBefore+1000, cm.state.Player.Fans)
	assert.Equal(t, moneyBefore+500, cm.state.Player.Money)
	assert.Nil(t, cm.state.PendingEvent)

	// Choosing is terminal: the event cannot be resolved twice.
	_, err = cm.ResolveEvent(0)
	assert.ErrorIs(t, err, ErrNoPendingEvent)
}

func TestResolveEventFailureBranch(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	cm.state.PendingEvent = &types.CareerEvent{
		ID: "risky",
		Options: []types.EventOption{
			{
				Label:         "Gamble",
				SuccessChance: 0,
				Success:       types.Outcome{Text: "Won.", FansDelta: 1000},
				Failure:       types.Outcome{Text: "Lost.", FansDelta: -50},
			},
		},
	}

	cm.state.Player.Fans = 100

	outcome, err := cm.ResolveEvent(0)
	require.NoError(t, err)

	assert.Equal(t, "Lost.", outcome.Text)
	assert.Equal(t, int64(50), cm.state.Player.Fans)
}

func TestResolveEventBadOption(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)

	cm.state.PendingEvent = &types.CareerEvent{
		ID:      "test-event",
		Options: []types.EventOption{{Label: "Only", SuccessChance: 1.0}},
	}

	_, err := cm.ResolveEvent(5)
	assert.Error(t, err)
	assert.NotNil(t, cm.state.PendingEvent, "bad option must not consume the event")
}

func TestResolveInteractionBonuses(t *testing.T) {
	cm := newTestManager(t)
	startCareer(t, cm)
	cm.state.Released = append(cm.state.Released, types.Song{
		ID: "s1", Title: "Afterglow", Quality: 80, IsMastered: true, Streams: 1000,
	})

	interaction := &types.FanInteraction{
		Username: "midnight_muse",
		Message:  "this album saved me",
		Options: []types.InteractionOption{
			{Label: "Reply", Result: "They cried.", BonusType: "fans", BonusValue: 500},
			{Label: "Repost", Result: "It spread.", BonusType: "streams", BonusValue: 2000},
			{Label: "Like", Result: "They noticed.", BonusType: "fame", BonusValue: 300},
		},
	}

	t.Run("streams bonus lands on the latest release", func(t *testing.T) {
		cm.state.PendingInteraction = interaction

		outcome, err := cm.ResolveInteraction(1)
		require.NoError(t, err)

		assert.Equal(t, "It spread.", outcome.Text)
		assert.Equal(t, int64(3000), cm.state.Released[0].Streams)
		assert.Equal(t, int64(2000), cm.state.MonthStreams)
		assert.Nil(t, cm.state.PendingInteraction)
	})

	t.Run("fans bonus", func(t *testing.T) {
		cm.state.PendingInteraction = interaction
		fansBefore := cm.state.Player.Fans

		_, err := cm.ResolveInteraction(0)
		require.NoError(t, err)
		assert.Equal(t, fansBefore+500, cm.state.Player.Fans)
	})

	t.Run("fame bonus", func(t *testing.T) {
		cm.state.PendingInteraction = interaction
		fameBefore := cm.state.Player.Fame

		_, err := cm.ResolveInteraction(2)
		require.NoError(t, err)
		assert.Equal(t, fameBefore+300, cm.state.Player.Fame)
	})

	t.Run("no pending interaction", func(t *testing.T) {
		_, err := cm.ResolveInteraction(0)
		assert.ErrorIs(t, err, ErrNoPendingFan)
	})
}
