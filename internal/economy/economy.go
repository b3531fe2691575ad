// Package economy holds the pure economic formulas of the simulation. Every
// function is deterministic given its inputs; probability draws come from an
// injected *rand.Rand, never a global generator.
package economy

import (
	"math"
	"math/rand"

	"github.com/user/starwave/internal/types"
)

const (
	// BaseStreamRate is the payout per stream below the megastar threshold.
	BaseStreamRate = 0.5

	// MegastarFans is the fan count where the linear rate bonus starts.
	MegastarFans = 1_000_000

	megastarRateSlope = 1e-7

	// WeeklyFanGrowth is the organic growth applied on a non-settlement week.
	WeeklyFanGrowth = 0.01

	// MonthlyFanGrowth replaces the weekly trickle on a settlement step.
	MonthlyFanGrowth = 0.05

	// GhostwriterBonus is added to the skill base when a ghostwriter was engaged.
	GhostwriterBonus = 15

	// MaxFeatureBonus caps the quality bonus contributed by a featured artist.
	MaxFeatureBonus = 20

	featureFamePerPoint = 500_000

	// TapsPerSession is the number of taps a mastering mini-game requires.
	TapsPerSession = 5
)

// FollowerGrowth is the per-platform monthly compounding rate applied at
// settlement.
var FollowerGrowth = map[types.Platform]float64{
	types.PlatformInstagram: 0.03,
	types.PlatformTikTok:    0.05,
	types.PlatformTwitter:   0.02,
	types.PlatformYouTube:   0.04,
}

// ReleaseFameMultiplier converts song quality into fame gain on distribution.
// YouTube pays four times the baseline and doubles the fan gain.
var ReleaseFameMultiplier = map[types.Platform]int64{
	types.PlatformTwitter:   20,
	types.PlatformInstagram: 25,
	types.PlatformTikTok:    30,
	types.PlatformYouTube:   100,
}

// PostFanMultiplier scales social-post fan gain per platform.
var PostFanMultiplier = map[types.Platform]float64{
	types.PlatformTwitter:   1.0,
	types.PlatformInstagram: 1.2,
	types.PlatformYouTube:   1.3,
	types.PlatformTikTok:    1.5,
}

// StreamRate returns the payout per stream for the current fan count.
// Monotonic non-decreasing: flat 0.5 below a million fans, then a linear bonus.
func StreamRate(fans int64) float64 {
	if fans < MegastarFans {
		return BaseStreamRate
	}
	return BaseStreamRate + float64(fans-MegastarFans)*megastarRateSlope
}

// WeeklyStreamGain computes the streams a released song gains in one week.
// Floors at 1: every released song moves at least one stream per week.
func WeeklyStreamGain(quality int, fans, fame int64, rng *rand.Rand) int64 {
	qualityFactor := float64(quality) / 100.0
	qualityFactor *= qualityFactor
	audienceFactor := float64(fans)*0.05 + float64(fame)*0.01
	jitter := 0.8 + rng.Float64()*0.4
	gain := int64(math.Floor(audienceFactor * qualityFactor * jitter))
	if gain < 1 {
		return 1
	}
	return gain
}

// SongRevenue revalues a song's total historical streams at the current rate.
// Deliberately not an incremental accrual: past streams are re-priced every
// step at the rate implied by today's fan count.
func SongRevenue(streams, fans int64) float64 {
	return float64(streams) * StreamRate(fans)
}

// Royalties converts a month of stream activity into money at settlement.
// revenueSplit is the artist share in percent (100 when self-released).
func Royalties(monthStreams, fans int64, revenueSplit float64) float64 {
	return float64(monthStreams) * StreamRate(fans) * revenueSplit / 100.0
}

// OrganicFanGrowth returns the fans gained on one advance.
func OrganicFanGrowth(fans int64, settlement bool) int64 {
	rate := WeeklyFanGrowth
	if settlement {
		rate = MonthlyFanGrowth
	}
	return int64(math.Floor(float64(fans) * rate))
}

// MasterQuality scores a mastered song from skills, session bonuses and the
// tap mini-game performance. Result is clamped to [0,100] regardless of input
// magnitudes.
func MasterQuality(songwriting, production, vocals int, ghostwriter bool, featuredFame int64, tapScores []float64, rng *rand.Rand) int {
	base := float64(songwriting+production+vocals) / 3.0
	if ghostwriter {
		base += GhostwriterBonus
	}
	if featuredFame > 0 {
		base += math.Min(MaxFeatureBonus, float64(featuredFame)/featureFamePerPoint)
	}

	var performance float64
	if len(tapScores) > 0 {
		for _, s := range tapScores {
			performance += s
		}
		performance /= float64(len(tapScores))
	}

	quality := int(math.Floor(base*0.7 + performance*0.3 + rng.Float64()*5))
	return ClampQuality(quality)
}

// ClampQuality bounds a quality score to [0,100].
func ClampQuality(q int) int {
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// TapScore scores a single mini-game tap at slider position pos (0-100).
// Perfect at center, zero at either edge.
func TapScore(pos float64) float64 {
	score := 100 - math.Abs(50-pos)*2
	if score < 0 {
		return 0
	}
	return score
}

// TapSpeed is the slider speed for the next tap, growing with each tap taken.
func TapSpeed(tapsTaken int) float64 {
	return 2.5 + 0.5*float64(tapsTaken)
}

// FallbackSongImpact estimates release fan gain when the oracle is unavailable.
func FallbackSongImpact(quality int, fans int64) int64 {
	return int64(math.Floor(float64(quality)/100.0*float64(fans)*0.2 + 500))
}

// ReleaseFanGain scales an impact estimate by platform. YouTube doubles it.
func ReleaseFanGain(base int64, platform types.Platform) int64 {
	if platform == types.PlatformYouTube {
		return base * 2
	}
	return base
}

// ReleaseFameGain converts quality into fame gain for a release on platform.
func ReleaseFameGain(quality int, platform types.Platform) int64 {
	return int64(quality) * ReleaseFameMultiplier[platform]
}

// TrendingBoost is the post multiplier for matching current trending topics.
// No matches means no boost.
func TrendingBoost(matches int) float64 {
	if matches <= 0 {
		return 1.0
	}
	return 1.5 + 0.2*float64(matches)
}

// PostImpact computes the fan, fame and follower gains of a social post.
func PostImpact(platform types.Platform, followers, fans int64, charisma int, trendingMatches int) types.PostImpact {
	base := float64(followers)*0.01 + float64(fans)*0.005 + float64(charisma)*10
	base *= PostFanMultiplier[platform]
	base *= TrendingBoost(trendingMatches)

	fanGain := int64(math.Floor(base))
	return types.PostImpact{
		Fans: fanGain,
		Fame: fanGain / 2,
	}
}

// FollowerGain is how many platform followers a post's fan gain converts into.
func FollowerGain(fanGain int64) int64 {
	return int64(math.Floor(float64(fanGain) * 0.4))
}
