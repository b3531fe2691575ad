package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/user/starwave/internal/economy"
	"github.com/user/starwave/internal/types"
)

// weeksPerMonth is the number of advances in one in-game month. The advance
// that would push the counter to the last week instead performs the rollover
// and resets it to 1.
const weeksPerMonth = 4

const (
	awardFameBonus  = 500_000
	awardMoneyBonus = 100_000

	albumAwardFans    = 1_000_000
	albumAwardSongs   = 3
	albumAwardQuality = 85
	artistAwardFame   = 5_000_000
)

// AdvanceResult describes everything one time step did, for the UI to narrate.
type AdvanceResult struct {
	Week       int       `json:"week"`
	Date       time.Time `json:"date"`
	StreamGain int64     `json:"stream_gain"`
	FanGrowth  int64     `json:"fan_growth"`

	Settled   bool    `json:"settled"`
	Royalties float64 `json:"royalties"`

	NewAwards []types.Award         `json:"new_awards,omitempty"`
	NewOffer  *types.SponsoredOffer `json:"new_offer,omitempty"`
	Event     *types.CareerEvent    `json:"event,omitempty"`
	Trending  []string              `json:"trending,omitempty"`
}

// AdvanceWeek runs one time step: weekly stream accrual and organic growth,
// plus the full monthly settlement when the week counter rolls over.
func (cm *CareerManager) AdvanceWeek(ctx context.Context) (*AdvanceResult, error) {
	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}

	st := cm.state
	settling := st.Week+1 >= weeksPerMonth

	result := &AdvanceResult{Settled: settling}

	// Weekly stream gain for every released song, accumulated for settlement.
	var weekGain int64
	for i := range st.Released {
		song := &st.Released[i]
		gain := economy.WeeklyStreamGain(song.Quality, st.Player.Fans, st.Player.Fame, cm.rng)
		song.Streams += gain
		weekGain += gain
	}
	st.MonthStreams += weekGain
	result.StreamGain = weekGain

	if settling {
		cm.settleMonth(ctx, result)
	} else {
		growth := economy.OrganicFanGrowth(st.Player.Fans, false)
		st.Player.Fans += growth
		result.FanGrowth = growth
		st.Week++
	}

	// Revalue every released song's cumulative streams at the current rate.
	for i := range st.Released {
		song := &st.Released[i]
		song.Revenue = economy.SongRevenue(song.Streams, st.Player.Fans)
	}

	result.Week = st.Week
	result.Date = st.Date

	cm.Logger.Info("advanced week",
		zap.Int("week", st.Week),
		zap.Time("date", st.Date),
		zap.Bool("settled", settling),
		zap.Int64("stream_gain", weekGain),
		zap.Int64("fans", st.Player.Fans))

	cm.saveLocked()
	return result, nil
}

// settleMonth performs the monthly rollover: royalties, compounding growth,
// trending refresh, offer generation, award season and random events.
func (cm *CareerManager) settleMonth(ctx context.Context, result *AdvanceResult) {
	st := cm.state

	st.Week = 1
	st.Date = st.Date.AddDate(0, 1, 0)
	st.MonthIndex++

	// Royalties settle the month's stream activity at the current rate.
	label := cm.labelFor(&st.Player)
	royalties := economy.Royalties(st.MonthStreams, st.Player.Fans, label.RevenueSplit)
	st.Player.Money += royalties
	st.MonthStreams = 0
	result.Royalties = royalties

	// Monthly fan growth replaces the weekly trickle.
	growth := economy.OrganicFanGrowth(st.Player.Fans, true)
	st.Player.Fans += growth
	result.FanGrowth = growth

	// Followers compound per platform at distinct rates.
	for platform, count := range st.Player.Followers {
		st.Player.Followers[platform] = count + int64(float64(count)*economy.FollowerGrowth[platform])
	}

	st.History = append(st.History, types.FanSample{
		MonthIndex: st.MonthIndex,
		Fans:       st.Player.Fans,
	})

	st.Trending = cm.oracle.TrendingTopics(ctx)
	result.Trending = st.Trending

	if cm.rng.Float64() < cm.cfg.Game.OfferProbability {
		offer := cm.oracle.SponsorOffer(ctx, st.Player.Fame)
		offer.ID = uuid.New().String()
		cm.pushOffer(offer)
		result.NewOffer = &offer
	}

	// Award season runs on the first month of every calendar year.
	if st.Date.Month() == time.January {
		result.NewAwards = cm.evaluateAwards()
	}

	// One random career event may surface, unless a modal already blocks.
	if !st.HasPendingModal() && len(cm.events) > 0 && cm.rng.Float64() < cm.cfg.Game.EventProbability {
		event := cm.events[cm.rng.Intn(len(cm.events))]
		st.PendingEvent = &event
		result.Event = &event
	}
}

// evaluateAwards runs the award-season checks and applies the bonuses.
func (cm *CareerManager) evaluateAwards() []types.Award {
	st := cm.state
	var won []types.Award

	bestQuality := 0
	bestTitle := ""
	for i := range st.Released {
		if st.Released[i].Quality > bestQuality {
			bestQuality = st.Released[i].Quality
			bestTitle = st.Released[i].Title
		}
	}

	if st.Player.Fans > albumAwardFans && len(st.Released) >= albumAwardSongs && bestQuality > albumAwardQuality {
		won = append(won, types.Award{
			ID:       uuid.New().String(),
			Year:     st.Date.Year(),
			Category: "Album of the Year",
			Reason:   bestTitle,
		})
	}

	if st.Player.Fame > artistAwardFame {
		won = append(won, types.Award{
			ID:       uuid.New().String(),
			Year:     st.Date.Year(),
			Category: "Artist of the Year",
			Reason:   artistName(&st.Player),
		})
	}

	// Bonuses stack additively per category.
	for _, award := range won {
		st.Awards = append(st.Awards, award)
		st.Player.Fame += awardFameBonus
		st.Player.Money += awardMoneyBonus
		cm.pushHeadline(artistName(&st.Player) + " wins " + award.Category)
		cm.Logger.Info("award won",
			zap.String("category", award.Category),
			zap.Int("year", award.Year))
	}

	return won
}

// pushOffer prepends an offer to the rolling window, evicting the oldest.
func (cm *CareerManager) pushOffer(offer types.SponsoredOffer) {
	st := cm.state
	st.Offers = append([]types.SponsoredOffer{offer}, st.Offers...)
	if len(st.Offers) > types.MaxActiveOffers {
		st.Offers = st.Offers[:types.MaxActiveOffers]
	}
}

// pushHeadline prepends to the capped news log.
func (cm *CareerManager) pushHeadline(headline string) {
	st := cm.state
	st.Headlines = append([]string{headline}, st.Headlines...)
	if len(st.Headlines) > types.MaxHeadlines {
		st.Headlines = st.Headlines[:types.MaxHeadlines]
	}
}

// applyOutcome commits an event or interaction outcome to the player.
// Fans, charisma and followers are floored at zero.
func (cm *CareerManager) applyOutcome(outcome types.Outcome) {
	player := &cm.state.Player

	player.Fans += outcome.FansDelta
	if player.Fans < 0 {
		player.Fans = 0
	}
	player.Fame += outcome.FameDelta
	if player.Fame < 0 {
		player.Fame = 0
	}
	player.Money += outcome.MoneyDelta
	player.Songwriting += outcome.SongwritingDelta
	player.Vocals += outcome.VocalsDelta
	player.Production += outcome.ProductionDelta
	player.Charisma += outcome.CharismaDelta
	if player.Charisma < 0 {
		player.Charisma = 0
	}

	for platform, delta := range outcome.FollowerDeltas {
		player.Followers[platform] += delta
		if player.Followers[platform] < 0 {
			player.Followers[platform] = 0
		}
	}
}
