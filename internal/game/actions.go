package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/user/starwave/internal/economy"
	"github.com/user/starwave/internal/types"
)

// Validation rejections surfaced to the player. None of them mutate state.
var (
	ErrNoCareer          = errors.New("no active career")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSongNotFound      = errors.New("song not found")
	ErrOfferNotFound     = errors.New("offer not found")
	ErrLabelNotFound     = errors.New("label not found")
	ErrNotEnoughFame     = errors.New("label requires more fame")
	ErrAlreadySigned     = errors.New("already signed with this label")
	ErrNotMastered       = errors.New("song must be mastered before release")
	ErrSessionIncomplete = errors.New("recording session incomplete")
	ErrNoPendingEvent    = errors.New("no pending event")
	ErrNoPendingFan      = errors.New("no pending fan interaction")
	ErrAlreadyMusicVideo = errors.New("music video already produced")
	ErrUnknownPlatform   = errors.New("unknown platform")
)

// DraftInput describes a new recording session.
type DraftInput struct {
	Title string `json:"title"`
	Genre string `json:"genre"`

	// Optional session extras, priced separately.
	Ghostwriter    bool   `json:"ghostwriter"`
	FeaturedArtist string `json:"featured_artist"`
	FeaturedFame   int64  `json:"featured_fame"`
}

// ReleaseResult describes what a distribution did.
type ReleaseResult struct {
	Song      types.Song            `json:"song"`
	FanGain   int64                 `json:"fan_gain"`
	FameGain  int64                 `json:"fame_gain"`
	Reception string                `json:"reception"`
	Headline  string                `json:"headline"`
	Fan       *types.FanInteraction `json:"fan_interaction,omitempty"`
}

// DraftSong starts a recording session: checks the session cost, writes
// lyrics through the oracle and appends a zero-quality unmastered draft.
func (cm *CareerManager) DraftSong(ctx context.Context, in DraftInput) (*types.Song, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.New("title is required")
	}

	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	st := cm.state

	cost := cm.cfg.Game.StudioRent
	if in.Ghostwriter {
		cost += cm.cfg.Game.GhostwriterFee
	}
	if in.FeaturedArtist != "" {
		cost += cm.cfg.Game.FeatureFee
	}
	if st.Player.Money < cost {
		return nil, ErrInsufficientFunds
	}

	genre := in.Genre
	if genre == "" {
		genre = st.Player.Genre
	}

	lyrics := cm.oracle.Lyrics(ctx, in.Title, genre)

	st.Player.Money -= cost
	song := types.Song{
		ID:             uuid.New().String(),
		Title:          in.Title,
		Genre:          genre,
		Quality:        0,
		Lyrics:         lyrics,
		Ghostwriter:    in.Ghostwriter,
		FeaturedArtist: in.FeaturedArtist,
		FeaturedFame:   in.FeaturedFame,
	}
	st.Unreleased = append(st.Unreleased, song)

	cm.Logger.Info("song drafted",
		zap.String("title", in.Title),
		zap.String("genre", genre),
		zap.Float64("cost", cost))

	cm.saveLocked()
	return &song, nil
}

// StartTapSession begins the mastering mini-game for an unmastered draft.
func (cm *CareerManager) StartTapSession(title string) (*TapSession, error) {
	cm.stateLock.RLock()
	defer cm.stateLock.RUnlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	if cm.findDraftLocked(title) == -1 {
		return nil, ErrSongNotFound
	}
	return NewTapSession(title), nil
}

// MasterSong finalizes a draft using the collected tap scores. The mastered
// version replaces any same-titled unmastered entry.
func (cm *CareerManager) MasterSong(ctx context.Context, title string, tapScores []float64) (*types.Song, error) {
	if len(tapScores) != economy.TapsPerSession {
		return nil, ErrSessionIncomplete
	}

	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	st := cm.state

	idx := cm.findDraftLocked(title)
	if idx == -1 {
		return nil, ErrSongNotFound
	}

	song := &st.Unreleased[idx]
	song.Quality = economy.MasterQuality(
		st.Player.Songwriting,
		st.Player.Production,
		st.Player.Vocals,
		song.Ghostwriter,
		song.FeaturedFame,
		tapScores,
		cm.rng,
	)
	song.IsMastered = true

	// Drop any other unmastered takes of the same title.
	kept := st.Unreleased[:0]
	for i := range st.Unreleased {
		other := st.Unreleased[i]
		if other.ID != song.ID && other.Title == title && !other.IsMastered {
			continue
		}
		kept = append(kept, other)
	}
	st.Unreleased = kept

	mastered := *song
	cm.Logger.Info("song mastered",
		zap.String("title", title),
		zap.Int("quality", mastered.Quality))

	cm.saveLocked()
	return &mastered, nil
}

// ReleaseSong distributes a mastered song on a platform: charges the fee,
// moves the song to the released catalog with today's date, applies the
// oracle-estimated impact and logs the social fallout.
func (cm *CareerManager) ReleaseSong(ctx context.Context, songID string, platform types.Platform) (*ReleaseResult, error) {
	if !types.ValidPlatform(platform) {
		return nil, ErrUnknownPlatform
	}

	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	st := cm.state

	idx := st.FindUnreleased(songID)
	if idx == -1 {
		return nil, ErrSongNotFound
	}
	if !st.Unreleased[idx].IsMastered {
		return nil, ErrNotMastered
	}

	fee := cm.cfg.Game.ReleaseFee
	if platform == types.PlatformYouTube {
		fee = cm.cfg.Game.VideoFee
	}
	if st.Player.Money < fee {
		return nil, ErrInsufficientFunds
	}

	song := st.Unreleased[idx]
	artist := artistName(&st.Player)

	impact := cm.oracle.EstimateSongImpact(ctx, song.Title, song.Quality, st.Player.Fans, song.Genre)
	if platform == types.PlatformYouTube {
		// Video releases ship with generated cover art when available.
		song.Thumbnail = cm.oracle.Thumbnail(ctx, song.Title, artist, song.Genre)
	}

	st.Player.Money -= fee
	song.ReleaseDate = st.Date
	song.Platform = platform
	st.Unreleased = append(st.Unreleased[:idx], st.Unreleased[idx+1:]...)
	st.Released = append(st.Released, song)

	fanGain := economy.ReleaseFanGain(impact.FanGain, platform)
	fameGain := economy.ReleaseFameGain(song.Quality, platform)
	st.Player.Fans += fanGain
	st.Player.Fame += fameGain
	st.Player.Followers[platform] += economy.FollowerGain(fanGain)

	content := fmt.Sprintf("%q is out now on %s!", song.Title, platform)
	post := types.SocialPost{
		ID:       uuid.New().String(),
		Platform: platform,
		Content:  content,
		Kind:     "release",
		Likes:    fanGain * 2,
		Comments: cm.oracle.Engagement(ctx, artist, content, platform),
		Impact: types.PostImpact{
			Fans: fanGain,
			Fame: fameGain,
		},
		Timestamp: st.Date,
	}
	st.Posts = append([]types.SocialPost{post}, st.Posts...)

	headline := cm.oracle.Headline(ctx, artist, fmt.Sprintf("released %q on %s", song.Title, platform))
	cm.pushHeadline(headline)

	result := &ReleaseResult{
		Song:      song,
		FanGain:   fanGain,
		FameGain:  fameGain,
		Reception: impact.Reception,
		Headline:  headline,
	}

	// A strong release can spark a direct fan interaction.
	if fanGain > cm.cfg.Game.InteractionThreshold &&
		!st.HasPendingModal() &&
		cm.rng.Float64() < cm.cfg.Game.InteractionProbability {
		if interaction := cm.oracle.FanInteraction(ctx, artist, content); interaction != nil {
			st.PendingInteraction = interaction
			result.Fan = interaction
		}
	}

	cm.Logger.Info("song released",
		zap.String("title", song.Title),
		zap.String("platform", string(platform)),
		zap.Int64("fan_gain", fanGain),
		zap.Int64("fame_gain", fameGain))

	cm.saveLocked()
	return result, nil
}

// ProduceMusicVideo flags a released song as a music video for a larger
// fan and fame payoff.
func (cm *CareerManager) ProduceMusicVideo(ctx context.Context, songID string) (*ReleaseResult, error) {
	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	st := cm.state

	idx := st.FindReleased(songID)
	if idx == -1 {
		return nil, ErrSongNotFound
	}
	song := &st.Released[idx]
	if song.IsMusicVideo {
		return nil, ErrAlreadyMusicVideo
	}
	if st.Player.Money < cm.cfg.Game.MusicVideoFee {
		return nil, ErrInsufficientFunds
	}

	artist := artistName(&st.Player)
	impact := cm.oracle.EstimateSongImpact(ctx, song.Title, song.Quality, st.Player.Fans, song.Genre)
	thumbnail := cm.oracle.Thumbnail(ctx, song.Title, artist, song.Genre)

	st.Player.Money -= cm.cfg.Game.MusicVideoFee
	song.IsMusicVideo = true
	if song.Thumbnail == "" {
		song.Thumbnail = thumbnail
	}

	fanGain := impact.FanGain * 2
	fameGain := int64(song.Quality) * 150
	st.Player.Fans += fanGain
	st.Player.Fame += fameGain
	st.Player.Followers[types.PlatformYouTube] += economy.FollowerGain(fanGain)

	content := fmt.Sprintf("The official video for %q is out now.", song.Title)
	post := types.SocialPost{
		ID:       uuid.New().String(),
		Platform: types.PlatformYouTube,
		Content:  content,
		Kind:     "video",
		Likes:    fanGain * 2,
		Comments: cm.oracle.Engagement(ctx, artist, content, types.PlatformYouTube),
		Impact: types.PostImpact{
			Fans: fanGain,
			Fame: fameGain,
		},
		Timestamp:        st.Date,
		VideoTitle:       song.Title + " (Official Video)",
		VideoDescription: impact.Reception,
		VideoThumbnail:   song.Thumbnail,
	}
	st.Posts = append([]types.SocialPost{post}, st.Posts...)

	headline := cm.oracle.Headline(ctx, artist, fmt.Sprintf("premiered the %q music video", song.Title))
	cm.pushHeadline(headline)

	cm.Logger.Info("music video produced",
		zap.String("title", song.Title),
		zap.Int64("fan_gain", fanGain))

	cm.saveLocked()
	return &ReleaseResult{
		Song:      *song,
		FanGain:   fanGain,
		FameGain:  fameGain,
		Reception: impact.Reception,
		Headline:  headline,
	}, nil
}

// PublishPost publishes a social post, boosted when it rides the trends.
func (cm *CareerManager) PublishPost(ctx context.Context, platform types.Platform, content string) (*types.SocialPost, error) {
	if !types.ValidPlatform(platform) {
		return nil, ErrUnknownPlatform
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("content is required")
	}

	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	st := cm.state

	matches := trendingMatches(content, st.Trending)
	impact := economy.PostImpact(platform, st.Player.Followers[platform], st.Player.Fans, st.Player.Charisma, matches)

	st.Player.Fans += impact.Fans
	st.Player.Fame += impact.Fame
	st.Player.Followers[platform] += economy.FollowerGain(impact.Fans)

	post := types.SocialPost{
		ID:        uuid.New().String(),
		Platform:  platform,
		Content:   content,
		Kind:      "post",
		Likes:     impact.Fans * 2,
		Comments:  cm.oracle.Engagement(ctx, artistName(&st.Player), content, platform),
		Impact:    impact,
		Timestamp: st.Date,
	}
	st.Posts = append([]types.SocialPost{post}, st.Posts...)

	cm.Logger.Info("post published",
		zap.String("platform", string(platform)),
		zap.Int("trending_matches", matches),
		zap.Int64("fan_gain", impact.Fans))

	cm.saveLocked()
	return &post, nil
}

// AcceptOffer takes a sponsorship deal: payout in, charisma down, offer gone.
func (cm *CareerManager) AcceptOffer(offerID string) (*types.SponsoredOffer, error) {
	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	st := cm.state

	idx := -1
	for i := range st.Offers {
		if st.Offers[i].ID == offerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrOfferNotFound
	}

	offer := st.Offers[idx]
	st.Offers = append(st.Offers[:idx], st.Offers[idx+1:]...)

	st.Player.Money += offer.Payout
	st.Player.Charisma -= offer.CharismaPenalty
	if st.Player.Charisma < 0 {
		st.Player.Charisma = 0
	}

	post := types.SocialPost{
		ID:        uuid.New().String(),
		Platform:  types.PlatformInstagram,
		Content:   fmt.Sprintf("Partnering with %s! %s #ad", offer.Brand, offer.Requirement),
		Kind:      "sponsored",
		Timestamp: st.Date,
	}
	st.Posts = append([]types.SocialPost{post}, st.Posts...)

	cm.Logger.Info("offer accepted",
		zap.String("brand", offer.Brand),
		zap.Float64("payout", offer.Payout),
		zap.Int("charisma_penalty", offer.CharismaPenalty))

	cm.saveLocked()
	return &offer, nil
}

// SignLabel signs with a label when the fame gate allows it.
func (cm *CareerManager) SignLabel(labelID string) (*types.Label, error) {
	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	st := cm.state

	label, ok := cm.labels[labelID]
	if !ok {
		return nil, ErrLabelNotFound
	}
	if st.Player.LabelID == labelID {
		return nil, ErrAlreadySigned
	}
	if st.Player.Fame < label.FameRequirement {
		return nil, ErrNotEnoughFame
	}

	st.Player.LabelID = labelID
	st.Player.Money += label.SigningBonus
	cm.pushHeadline(fmt.Sprintf("%s signs with %s", artistName(&st.Player), label.Name))

	cm.Logger.Info("label signed",
		zap.String("label", label.Name),
		zap.Float64("signing_bonus", label.SigningBonus))

	cm.saveLocked()
	return &label, nil
}

// ResolveEvent applies one option of the pending career event. Choosing is
// terminal for the event instance.
func (cm *CareerManager) ResolveEvent(optionIndex int) (*types.Outcome, error) {
	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	st := cm.state

	if st.PendingEvent == nil {
		return nil, ErrNoPendingEvent
	}
	if optionIndex < 0 || optionIndex >= len(st.PendingEvent.Options) {
		return nil, errors.New("option not found")
	}

	option := st.PendingEvent.Options[optionIndex]
	outcome := option.Success
	if option.SuccessChance < 1.0 && cm.rng.Float64() >= option.SuccessChance {
		outcome = option.Failure
	}

	cm.applyOutcome(outcome)
	eventID := st.PendingEvent.ID
	st.PendingEvent = nil

	cm.Logger.Info("career event resolved",
		zap.String("event", eventID),
		zap.Int("option", optionIndex))

	cm.saveLocked()
	return &outcome, nil
}

// ResolveInteraction applies one reply of the pending fan interaction.
func (cm *CareerManager) ResolveInteraction(optionIndex int) (*types.Outcome, error) {
	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	st := cm.state

	if st.PendingInteraction == nil {
		return nil, ErrNoPendingFan
	}
	if optionIndex < 0 || optionIndex >= len(st.PendingInteraction.Options) {
		return nil, errors.New("option not found")
	}

	option := st.PendingInteraction.Options[optionIndex]
	outcome := types.Outcome{Text: option.Result}
	switch option.BonusType {
	case "fame":
		outcome.FameDelta = option.BonusValue
	case "streams":
		// A streams bonus lands on the latest release and counts toward
		// the month's settlement.
		if n := len(st.Released); n > 0 {
			st.Released[n-1].Streams += option.BonusValue
			st.MonthStreams += option.BonusValue
		}
	default:
		outcome.FansDelta = option.BonusValue
	}

	cm.applyOutcome(outcome)
	st.PendingInteraction = nil

	cm.Logger.Info("fan interaction resolved",
		zap.Int("option", optionIndex),
		zap.String("bonus_type", option.BonusType))

	cm.saveLocked()
	return &outcome, nil
}

// findDraftLocked returns the index of an unmastered draft by title, or -1.
func (cm *CareerManager) findDraftLocked(title string) int {
	for i := range cm.state.Unreleased {
		if cm.state.Unreleased[i].Title == title && !cm.state.Unreleased[i].IsMastered {
			return i
		}
	}
	return -1
}

// trendingMatches counts trending tags referenced by the post content.
func trendingMatches(content string, trending []string) int {
	lowered := strings.ToLower(content)
	matches := 0
	for _, topic := range trending {
		tag := strings.ToLower(strings.TrimPrefix(topic, "#"))
		if tag != "" && strings.Contains(lowered, tag) {
			matches++
		}
	}
	return matches
}
