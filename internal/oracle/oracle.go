// Package oracle defines the narrative oracle the simulation core consumes
// for flavor content. Every call has a deterministic fallback so the game
// stays fully playable when the generative backend is slow, down or returns
// garbage.
package oracle

import (
	"context"

	"github.com/user/starwave/internal/types"
)

// SongImpact is the oracle's estimate of how a release lands.
type SongImpact struct {
	FanGain   int64  `json:"fan_gain"`
	Reception string `json:"reception"`
}

// Snapshot is the player view handed to the career-summary call.
type Snapshot struct {
	StageName  string  `json:"stage_name"`
	Genre      string  `json:"genre"`
	Fans       int64   `json:"fans"`
	Fame       int64   `json:"fame"`
	Money      float64 `json:"money"`
	SongCount  int     `json:"song_count"`
	AwardCount int     `json:"award_count"`
}

// Oracle is the generative capability behind the narrative surface.
//
// Implementations may fail; callers are expected to go through Resilient,
// which substitutes the documented fallback for every error.
type Oracle interface {
	// Lyrics writes a short lyric sheet for a draft.
	Lyrics(ctx context.Context, title, genre string) (string, error)

	// TrendingTopics returns the five tags currently trending.
	TrendingTopics(ctx context.Context) ([]string, error)

	// SponsorOffer drafts a brand deal sized to the artist's fame. The
	// returned offer has no ID; the caller assigns one.
	SponsorOffer(ctx context.Context, fame int64) (types.SponsoredOffer, error)

	// Headline writes an industry news headline about an event.
	Headline(ctx context.Context, artist, event string) (string, error)

	// Engagement simulates up to three comments under a post.
	Engagement(ctx context.Context, artist, content string, platform types.Platform) ([]types.Comment, error)

	// EstimateSongImpact predicts the fan gain and reception of a release.
	EstimateSongImpact(ctx context.Context, title string, quality int, fans int64, genre string) (SongImpact, error)

	// Thumbnail produces a cover-art artifact reference, or "" for none.
	Thumbnail(ctx context.Context, title, artist, genre string) (string, error)

	// FanInteraction scripts a fan mini-event, or nil for none.
	FanInteraction(ctx context.Context, artist, content string) (*types.FanInteraction, error)

	// CareerSummary writes a one-sentence career recap.
	CareerSummary(ctx context.Context, snap Snapshot) (string, error)
}
