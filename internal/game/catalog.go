package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/starwave/internal/types"
)

// DefaultLabels returns the built-in label catalog, unsigned baseline first.
// Revenue split is the artist share in percent.
func DefaultLabels() []types.Label {
	return []types.Label{
		{
			ID:           "self",
			Name:         "Self-Released",
			Prestige:     0,
			RevenueSplit: 100,
		},
		{
			ID:              "garage-tapes",
			Name:            "Garage Tapes Collective",
			Prestige:        1,
			FameRequirement: 50_000,
			SigningBonus:    10_000,
			RevenueSplit:    85,
		},
		{
			ID:              "neon-city",
			Name:            "Neon City Records",
			Prestige:        2,
			FameRequirement: 500_000,
			SigningBonus:    75_000,
			RevenueSplit:    70,
		},
		{
			ID:              "apex-sound",
			Name:            "Apex Sound Group",
			Prestige:        3,
			FameRequirement: 2_000_000,
			SigningBonus:    400_000,
			RevenueSplit:    60,
		},
		{
			ID:              "meridian",
			Name:            "Meridian Worldwide",
			Prestige:        4,
			FameRequirement: 10_000_000,
			SigningBonus:    2_500_000,
			RevenueSplit:    55,
		},
	}
}

// DefaultCareerEvents returns the fixed catalog of two-option career events.
func DefaultCareerEvents() []types.CareerEvent {
	return []types.CareerEvent{
		{
			ID:          "viral-clip",
			Title:       "A Clip Goes Viral",
			Description: "A fan's concert clip of you is blowing up overnight. Lean into it or stay mysterious?",
			Options: []types.EventOption{
				{
					Label:         "Repost it everywhere",
					SuccessChance: 0.55,
					Success: types.Outcome{
						Text:      "The repost catches a second wave and your following surges.",
						FansDelta: 15_000,
						FameDelta: 40_000,
						FollowerDeltas: map[types.Platform]int64{
							types.PlatformTikTok: 8_000,
						},
					},
					Failure: types.Outcome{
						Text:      "The moment passes before your repost lands. A modest bump anyway.",
						FansDelta: 2_000,
						FameDelta: 5_000,
					},
				},
				{
					Label:         "Stay quiet and let it breathe",
					SuccessChance: 1.0,
					Success: types.Outcome{
						Text:      "The mystery reads as confidence. Steady, durable growth.",
						FansDelta: 6_000,
						FameDelta: 15_000,
					},
				},
			},
		},
		{
			ID:          "late-night-slot",
			Title:       "Late Night TV Slot",
			Description: "A late-night show offers a last-minute performance slot. You'd have one rehearsal.",
			Options: []types.EventOption{
				{
					Label:         "Take the slot",
					SuccessChance: 0.55,
					Success: types.Outcome{
						Text:      "You nail the performance and the clip circulates for weeks.",
						FameDelta: 120_000,
						FansDelta: 25_000,
					},
					Failure: types.Outcome{
						Text:      "A cracked note becomes the clip instead. The internet is unkind.",
						FameDelta: -20_000,
						CharismaDelta: -2,
					},
				},
				{
					Label:         "Pass and keep rehearsing",
					SuccessChance: 1.0,
					Success: types.Outcome{
						Text:        "The extra studio week sharpens your craft.",
						VocalsDelta: 3,
						ProductionDelta: 1,
					},
				},
			},
		},
		{
			ID:          "songwriting-camp",
			Title:       "Songwriting Camp Invite",
			Description: "A respected producer invites you to a week-long writing camp upstate. It costs money but the rooms are stacked.",
			Options: []types.EventOption{
				{
					Label:         "Pay your way in",
					SuccessChance: 1.0,
					Success: types.Outcome{
						Text:             "A week of co-writes leaves you noticeably sharper.",
						MoneyDelta:       -3_000,
						SongwritingDelta: 4,
						ProductionDelta:  2,
					},
				},
				{
					Label:         "Decline politely",
					SuccessChance: 1.0,
					Success: types.Outcome{
						Text:          "You keep the cash and grind at home.",
						SongwritingDelta: 1,
					},
				},
			},
		},
		{
			ID:          "beef-bait",
			Title:       "Bait From a Rival",
			Description: "A bigger artist subtweets your latest release. Engagement farmers are tagging you by the minute.",
			Options: []types.EventOption{
				{
					Label:         "Fire back",
					SuccessChance: 0.45,
					Success: types.Outcome{
						Text:      "Your reply is instantly iconic. Even their fans share it.",
						FameDelta: 80_000,
						FansDelta: 10_000,
						FollowerDeltas: map[types.Platform]int64{
							types.PlatformTwitter: 12_000,
						},
					},
					Failure: types.Outcome{
						Text:      "The dunk lands on you. Screenshots everywhere.",
						FameDelta: -40_000,
						FansDelta: -3_000,
					},
				},
				{
					Label:         "Mute and move on",
					SuccessChance: 1.0,
					Success: types.Outcome{
						Text:      "You post a studio photo instead. Class wins quietly.",
						FameDelta: 10_000,
						CharismaDelta: 1,
					},
				},
			},
		},
		{
			ID:          "festival-cancellation",
			Title:       "Festival Headliner Drops Out",
			Description: "A mid-size festival lost its headliner and wants you tomorrow. The crowd won't be yours.",
			Options: []types.EventOption{
				{
					Label:         "Play the hostile crowd",
					SuccessChance: 0.55,
					Success: types.Outcome{
						Text:       "You win the field over by the third song.",
						FansDelta:  30_000,
						FameDelta:  60_000,
						MoneyDelta: 15_000,
					},
					Failure: types.Outcome{
						Text:       "Bottles of water were involved. You got paid, at least.",
						MoneyDelta: 15_000,
						FameDelta:  -10_000,
					},
				},
				{
					Label:         "Turn it down",
					SuccessChance: 1.0,
					Success: types.Outcome{
						Text: "You keep the week free and your nerves intact.",
					},
				},
			},
		},
		{
			ID:          "studio-flood",
			Title:       "Studio Flood",
			Description: "A burst pipe soaked your rented studio. The landlord is pointing at your gear, you're pointing at the ceiling.",
			Options: []types.EventOption{
				{
					Label:         "Lawyer up",
					SuccessChance: 0.55,
					Success: types.Outcome{
						Text:       "The landlord settles fast.",
						MoneyDelta: 8_000,
					},
					Failure: types.Outcome{
						Text:       "Legal fees eat the claim.",
						MoneyDelta: -4_000,
					},
				},
				{
					Label:         "Eat the cost and move studios",
					SuccessChance: 1.0,
					Success: types.Outcome{
						Text:       "The new room sounds better anyway.",
						MoneyDelta: -2_000,
						ProductionDelta: 1,
					},
				},
			},
		},
	}
}

// DataLoader reads optional catalog overrides from the assets directory.
// Missing files mean built-in defaults; malformed files are a startup error.
type DataLoader struct {
	basePath string
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string) *DataLoader {
	return &DataLoader{
		basePath: basePath,
	}
}

// LoadLabels loads the label catalog, falling back to the built-in table.
func (dl *DataLoader) LoadLabels() ([]types.Label, error) {
	path := filepath.Join(dl.basePath, "labels.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultLabels(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}

	var labels []types.Label
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("failed to parse labels data: %w", err)
	}

	return labels, nil
}

// LoadCareerEvents loads the event catalog, falling back to the built-in one.
func (dl *DataLoader) LoadCareerEvents() ([]types.CareerEvent, error) {
	path := filepath.Join(dl.basePath, "events.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultCareerEvents(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var events []types.CareerEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events data: %w", err)
	}

	return events, nil
}
