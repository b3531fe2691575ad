package interfaces

import (
	"context"

	"github.com/user/starwave/internal/game"
	"github.com/user/starwave/internal/types"
)

// CareerManager defines the interface for career operations consumed by the
// HTTP and CLI surfaces.
type CareerManager interface {
	HasCareer() bool
	NewCareer(ctx context.Context, name, stageName, genre string) (*types.CareerState, error)
	Snapshot() (*types.CareerState, error)
	Labels() []types.Label
	CareerSummary(ctx context.Context) (string, error)

	AdvanceWeek(ctx context.Context) (*game.AdvanceResult, error)

	DraftSong(ctx context.Context, in game.DraftInput) (*types.Song, error)
	MasterSong(ctx context.Context, title string, tapScores []float64) (*types.Song, error)
	ReleaseSong(ctx context.Context, songID string, platform types.Platform) (*game.ReleaseResult, error)
	ProduceMusicVideo(ctx context.Context, songID string) (*game.ReleaseResult, error)
	PublishPost(ctx context.Context, platform types.Platform, content string) (*types.SocialPost, error)

	AcceptOffer(offerID string) (*types.SponsoredOffer, error)
	SignLabel(labelID string) (*types.Label, error)
	ResolveEvent(optionIndex int) (*types.Outcome, error)
	ResolveInteraction(optionIndex int) (*types.Outcome, error)
}

var _ CareerManager = (*game.CareerManager)(nil)
