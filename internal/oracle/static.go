package oracle

import (
	"context"
	"fmt"

	"github.com/user/starwave/internal/types"
)

// Static is the deterministic fallback oracle. It never fails and returns
// exactly the documented fallback value for every call, which makes it the
// default backend when no generative endpoint is configured and the oracle
// of choice in tests.
type Static struct{}

var _ Oracle = Static{}

// FallbackLyrics is the placeholder lyric sheet used when generation fails.
const FallbackLyrics = "Verse 1:\nCity lights and restless nights\nChasing every sound\n\nChorus:\nTurn it up, we're breaking through\nNothing holds us down"

// FallbackReception accompanies the formulaic song-impact estimate.
const FallbackReception = "Fans are streaming it on repeat and the numbers are climbing."

// FallbackSummary is the career recap used when generation fails.
const FallbackSummary = "An artist on the rise, turning late-night sessions into a career one release at a time."

// FallbackTrending is the fixed five-tag trending list.
func FallbackTrending() []string {
	return []string{"#NewMusicFriday", "#StudioLife", "#ThrowbackSound", "#BedroomPop", "#OnRepeat"}
}

// FallbackOffer is the fixed GlowWater sponsorship deal.
func FallbackOffer() types.SponsoredOffer {
	return types.SponsoredOffer{
		Brand:           "GlowWater",
		Payout:          2500,
		Requirement:     "Post a story holding a bottle of GlowWater during your next studio session.",
		CharismaPenalty: 2,
	}
}

// FallbackEngagement is the fixed three-comment engagement list.
func FallbackEngagement() []types.Comment {
	return []types.Comment{
		{User: "midnight_muse", Text: "this is on repeat, no skips"},
		{User: "stan4life", Text: "THE TALENT. the range!!"},
		{User: "lowkeylistener", Text: "ok this actually goes hard"},
	}
}

func (Static) Lyrics(ctx context.Context, title, genre string) (string, error) {
	return FallbackLyrics, nil
}

func (Static) TrendingTopics(ctx context.Context) ([]string, error) {
	return FallbackTrending(), nil
}

func (Static) SponsorOffer(ctx context.Context, fame int64) (types.SponsoredOffer, error) {
	return FallbackOffer(), nil
}

func (Static) Headline(ctx context.Context, artist, event string) (string, error) {
	return fmt.Sprintf("%s makes headlines: %s", artist, event), nil
}

func (Static) Engagement(ctx context.Context, artist, content string, platform types.Platform) ([]types.Comment, error) {
	return FallbackEngagement(), nil
}

func (Static) EstimateSongImpact(ctx context.Context, title string, quality int, fans int64, genre string) (SongImpact, error) {
	return SongImpact{
		FanGain:   fallbackImpact(quality, fans),
		Reception: FallbackReception,
	}, nil
}

func (Static) Thumbnail(ctx context.Context, title, artist, genre string) (string, error) {
	// Distribution proceeds without cover art.
	return "", nil
}

func (Static) FanInteraction(ctx context.Context, artist, content string) (*types.FanInteraction, error) {
	// No fan-interaction modal without the generative backend.
	return nil, nil
}

func (Static) CareerSummary(ctx context.Context, snap Snapshot) (string, error) {
	return FallbackSummary, nil
}

// fallbackImpact mirrors economy.FallbackSongImpact without importing the
// economy package, keeping oracle free of simulation dependencies.
func fallbackImpact(quality int, fans int64) int64 {
	return int64(float64(quality) / 100.0 * float64(fans) * 0.2) + 500
}
