package oracle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/user/starwave/internal/types"
)

// DefaultTimeout bounds every oracle call made through Resilient.
const DefaultTimeout = 10 * time.Second

// Resilient wraps an oracle with a per-call timeout and fallback recovery.
// Its methods never return an error: a failing or slow inner oracle degrades
// to the Static fallback for that call, logged for diagnostics only.
type Resilient struct {
	inner    Oracle
	fallback Static
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResilient wraps inner. A nil inner oracle means fallbacks only.
func NewResilient(inner Oracle, timeout time.Duration, logger *zap.Logger) *Resilient {
	if inner == nil {
		inner = Static{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resilient{inner: inner, timeout: timeout, logger: logger}
}

func (r *Resilient) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Resilient) recover(call string, err error) {
	r.logger.Warn("oracle call failed, using fallback",
		zap.String("call", call),
		zap.Error(err))
}

// Lyrics returns generated lyrics or the fixed placeholder lyric.
func (r *Resilient) Lyrics(ctx context.Context, title, genre string) string {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	lyrics, err := r.inner.Lyrics(ctx, title, genre)
	if err != nil {
		r.recover("lyrics", err)
		lyrics, _ = r.fallback.Lyrics(ctx, title, genre)
	}
	return lyrics
}

// TrendingTopics returns a fresh topic list or the fixed five-tag list.
func (r *Resilient) TrendingTopics(ctx context.Context) []string {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	topics, err := r.inner.TrendingTopics(ctx)
	if err != nil {
		r.recover("trending_topics", err)
		topics, _ = r.fallback.TrendingTopics(ctx)
	}
	return topics
}

// SponsorOffer returns a generated deal or the fixed GlowWater offer.
func (r *Resilient) SponsorOffer(ctx context.Context, fame int64) types.SponsoredOffer {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	offer, err := r.inner.SponsorOffer(ctx, fame)
	if err != nil {
		r.recover("sponsor_offer", err)
		offer, _ = r.fallback.SponsorOffer(ctx, fame)
	}
	return offer
}

// Headline returns a generated headline or the templated fallback.
func (r *Resilient) Headline(ctx context.Context, artist, event string) string {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	headline, err := r.inner.Headline(ctx, artist, event)
	if err != nil {
		r.recover("headline", err)
		headline, _ = r.fallback.Headline(ctx, artist, event)
	}
	return headline
}

// Engagement returns simulated comments or the fixed three-comment list.
func (r *Resilient) Engagement(ctx context.Context, artist, content string, platform types.Platform) []types.Comment {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	comments, err := r.inner.Engagement(ctx, artist, content, platform)
	if err != nil {
		r.recover("engagement", err)
		comments, _ = r.fallback.Engagement(ctx, artist, content, platform)
	}
	return comments
}

// EstimateSongImpact returns the oracle estimate or the formulaic fallback.
func (r *Resilient) EstimateSongImpact(ctx context.Context, title string, quality int, fans int64, genre string) SongImpact {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	impact, err := r.inner.EstimateSongImpact(ctx, title, quality, fans, genre)
	if err != nil {
		r.recover("song_impact", err)
		impact, _ = r.fallback.EstimateSongImpact(ctx, title, quality, fans, genre)
	}
	return impact
}

// Thumbnail returns cover art or "" when generation is unavailable.
func (r *Resilient) Thumbnail(ctx context.Context, title, artist, genre string) string {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	url, err := r.inner.Thumbnail(ctx, title, artist, genre)
	if err != nil {
		r.recover("thumbnail", err)
		return ""
	}
	return url
}

// FanInteraction returns a scripted interaction, or nil when none could be
// generated (the release simply proceeds without the modal).
func (r *Resilient) FanInteraction(ctx context.Context, artist, content string) *types.FanInteraction {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	interaction, err := r.inner.FanInteraction(ctx, artist, content)
	if err != nil {
		r.recover("fan_interaction", err)
		return nil
	}
	return interaction
}

// CareerSummary returns a recap sentence or the fixed fallback sentence.
func (r *Resilient) CareerSummary(ctx context.Context, snap Snapshot) string {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	summary, err := r.inner.CareerSummary(ctx, snap)
	if err != nil {
		r.recover("career_summary", err)
		summary, _ = r.fallback.CareerSummary(ctx, snap)
	}
	return summary
}
