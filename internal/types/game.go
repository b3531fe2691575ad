package types

import "time"

// Platform identifies a social/streaming platform in the fixed platform set.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
	PlatformYouTube   Platform = "youtube"
)

// Platforms returns the closed set of platforms every follower map must cover.
func Platforms() []Platform {
	return []Platform{PlatformInstagram, PlatformTikTok, PlatformTwitter, PlatformYouTube}
}

// ValidPlatform reports whether p belongs to the fixed platform set.
func ValidPlatform(p Platform) bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

// Player represents the managed artist
type Player struct {
	Name      string `json:"name"`
	StageName string `json:"stage_name"`
	Genre     string `json:"genre"`

	Fans  int64   `json:"fans"`
	Fame  int64   `json:"fame"`
	Money float64 `json:"money"`

	Followers map[Platform]int64 `json:"followers"`

	// Skills, conventionally 0-100. Only charisma is floored at 0.
	Songwriting int `json:"songwriting"`
	Vocals      int `json:"vocals"`
	Production  int `json:"production"`
	Charisma    int `json:"charisma"`

	// LabelID is empty while unsigned.
	LabelID string `json:"label_id,omitempty"`
}

// NormalizeFollowers restores the follower-map invariant: one entry per platform.
func (p *Player) NormalizeFollowers() {
	if p.Followers == nil {
		p.Followers = make(map[Platform]int64, len(Platforms()))
	}
	for _, platform := range Platforms() {
		if _, ok := p.Followers[platform]; !ok {
			p.Followers[platform] = 0
		}
	}
}

// Song represents a drafted, mastered or released track
type Song struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Genre          string    `json:"genre"`
	Quality        int       `json:"quality"`
	FeaturedArtist string    `json:"featured_artist,omitempty"`
	FeaturedFame   int64     `json:"featured_fame,omitempty"`
	Ghostwriter    bool      `json:"ghostwriter,omitempty"`
	Lyrics         string    `json:"lyrics,omitempty"`
	Streams        int64     `json:"streams"`
	Revenue        float64   `json:"revenue"`
	ReleaseDate    time.Time `json:"release_date,omitempty"`
	Platform       Platform  `json:"platform,omitempty"`
	Thumbnail      string    `json:"thumbnail,omitempty"`
	IsMastered     bool      `json:"is_mastered"`
	IsMusicVideo   bool      `json:"is_music_video"`
}

// Comment is a simulated engagement comment on a social post
type Comment struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// PostImpact records what a post did to the career scalars
type PostImpact struct {
	Fans    int64 `json:"fans"`
	Fame    int64 `json:"fame"`
	Streams int64 `json:"streams,omitempty"`
}

// SocialPost is an immutable entry in the chronological post log (newest first)
type SocialPost struct {
	ID        string     `json:"id"`
	Platform  Platform   `json:"platform"`
	Content   string     `json:"content"`
	Kind      string     `json:"kind"` // post, release, video, sponsored
	Likes     int64      `json:"likes"`
	Comments  []Comment  `json:"comments,omitempty"`
	Impact    PostImpact `json:"impact"`
	Timestamp time.Time  `json:"timestamp"`

	// Video metadata, set for music-video posts only.
	VideoTitle       string `json:"video_title,omitempty"`
	VideoDescription string `json:"video_description,omitempty"`
	VideoThumbnail   string `json:"video_thumbnail,omitempty"`
}

// Award is created only by award-season evaluation, never mutated or removed
type Award struct {
	ID       string `json:"id"`
	Year     int    `json:"year"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// SponsoredOffer is a brand deal generated on the monthly schedule
type SponsoredOffer struct {
	ID              string  `json:"id"`
	Brand           string  `json:"brand"`
	Payout          float64 `json:"payout"`
	Requirement     string  `json:"requirement"`
	CharismaPenalty int     `json:"charisma_penalty"` // 1-10
}

// Label is a static catalog entry, looked up by Player.LabelID
type Label struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Prestige        int     `json:"prestige"`
	FameRequirement int64   `json:"fame_requirement"`
	SigningBonus    float64 `json:"signing_bonus"`
	RevenueSplit    float64 `json:"revenue_split"` // artist share, percent
}

// Outcome represents the effect of choosing an event or interaction option
type Outcome struct {
	Text             string             `json:"text"`
	FansDelta        int64              `json:"fans_delta,omitempty"`
	FameDelta        int64              `json:"fame_delta,omitempty"`
	MoneyDelta       float64            `json:"money_delta,omitempty"`
	CharismaDelta    int                `json:"charisma_delta,omitempty"`
	SongwritingDelta int                `json:"songwriting_delta,omitempty"`
	VocalsDelta      int                `json:"vocals_delta,omitempty"`
	ProductionDelta  int                `json:"production_delta,omitempty"`
	FollowerDeltas   map[Platform]int64 `json:"follower_deltas,omitempty"`
}

// EventOption is one of the two branches of a career event
type EventOption struct {
	Label string `json:"label"`

	// SuccessChance of 1.0 means a fixed outcome; lower values roll against
	// the injected random source and fall back to Failure.
	SuccessChance float64 `json:"success_chance"`
	Success       Outcome `json:"success"`
	Failure       Outcome `json:"failure,omitempty"`
}

// CareerEvent is a two-option narrative branch point from the fixed catalog
type CareerEvent struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Options     []EventOption `json:"options"` // exactly two
}

// InteractionOption is one of the three replies offered by a fan interaction
type InteractionOption struct {
	Label      string `json:"label"`
	Result     string `json:"result"`
	BonusType  string `json:"bonus_type"` // fans, fame, streams
	BonusValue int64  `json:"bonus_value"`
}

// FanInteraction is an oracle-generated mini-event after a strong release
type FanInteraction struct {
	Username string              `json:"username"`
	Message  string              `json:"message"`
	Options  []InteractionOption `json:"options"` // exactly three
}

// FanSample is one point of the monthly fan-history series
type FanSample struct {
	MonthIndex int   `json:"month_index"`
	Fans       int64 `json:"fans"`
}

// MaxActiveOffers caps the rolling sponsorship window; oldest offers are
// evicted first.
const MaxActiveOffers = 3

// MaxHeadlines caps the news log, newest first.
const MaxHeadlines = 15

// CareerState is the aggregate root. Exactly one logical actor holds the
// authoritative copy; every mutation goes through the career manager.
type CareerState struct {
	Player Player `json:"player"`

	Date       time.Time `json:"date"`
	Week       int       `json:"week"` // 0 before the first advance, 1-4 after
	MonthIndex int       `json:"month_index"`

	// MonthStreams accumulates weekly stream gains since the last settlement.
	MonthStreams int64 `json:"month_streams"`

	Unreleased []Song `json:"unreleased"`
	Released   []Song `json:"released"`

	Awards    []Award          `json:"awards"`
	Posts     []SocialPost     `json:"posts"` // newest first
	Trending  []string         `json:"trending"`
	Offers    []SponsoredOffer `json:"offers"` // newest first, max 3
	History   []FanSample      `json:"history"`
	Headlines []string         `json:"headlines"` // newest first, max 15

	PendingEvent       *CareerEvent    `json:"pending_event,omitempty"`
	PendingInteraction *FanInteraction `json:"pending_interaction,omitempty"`
}

// HasPendingModal reports whether a blocking choice is waiting on the player.
func (cs *CareerState) HasPendingModal() bool {
	return cs.PendingEvent != nil || cs.PendingInteraction != nil
}

// FindReleased returns the index of a released song by id, or -1.
func (cs *CareerState) FindReleased(songID string) int {
	for i := range cs.Released {
		if cs.Released[i].ID == songID {
			return i
		}
	}
	return -1
}

// FindUnreleased returns the index of an unreleased song by id, or -1.
func (cs *CareerState) FindUnreleased(songID string) int {
	for i := range cs.Unreleased {
		if cs.Unreleased[i].ID == songID {
			return i
		}
	}
	return -1
}
