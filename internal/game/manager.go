package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/starwave/config"
	"github.com/user/starwave/internal/oracle"
	"github.com/user/starwave/internal/types"
)

// CareerManager owns the authoritative CareerState and serializes every
// mutation. Exactly one logical actor (the game loop) drives it; the lock
// exists so read-only surfaces (HTTP state reads) stay consistent, not to
// coordinate concurrent writers.
type CareerManager struct {
	state     *types.CareerState
	stateLock sync.RWMutex
	storage   *CareerStorage
	cfg       config.Config
	Logger    *zap.Logger
	rng       *rand.Rand
	oracle    *oracle.Resilient
	labels    map[string]types.Label
	events    []types.CareerEvent
}

// NewCareerManager creates a manager, restoring a saved career if one exists.
func NewCareerManager(cfg config.Config) *CareerManager {
	storage := NewCareerStorage(cfg.Game.SavePath)

	// A corrupt or missing save means no career yet, never a failed start.
	state, err := storage.Load()
	if err != nil {
		state = nil
	}

	cm := &CareerManager{
		state:   state,
		storage: storage,
		cfg:     cfg,
		Logger:  zap.NewNop(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		oracle:  oracle.NewResilient(nil, 0, nil),
		labels:  make(map[string]types.Label),
		events:  DefaultCareerEvents(),
	}
	for _, label := range DefaultLabels() {
		cm.labels[label.ID] = label
	}

	return cm
}

// SetLogger installs the structured logger.
func (cm *CareerManager) SetLogger(logger *zap.Logger) {
	cm.Logger = logger
}

// SetOracle installs a generative backend behind the resilient wrapper.
// A nil backend means deterministic fallbacks only.
func (cm *CareerManager) SetOracle(inner oracle.Oracle, timeout time.Duration) {
	cm.oracle = oracle.NewResilient(inner, timeout, cm.Logger)
}

// SetRand replaces the random source, letting tests drive deterministic runs.
func (cm *CareerManager) SetRand(rng *rand.Rand) {
	cm.rng = rng
}

// LoadLabels replaces the label catalog.
func (cm *CareerManager) LoadLabels(labels []types.Label) {
	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	cm.labels = make(map[string]types.Label, len(labels))
	for _, label := range labels {
		cm.labels[label.ID] = label
	}
}

// LoadCareerEvents replaces the career-event catalog.
func (cm *CareerManager) LoadCareerEvents(events []types.CareerEvent) {
	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	cm.events = events
}

// NewCareer starts a fresh career, replacing any existing one.
func (cm *CareerManager) NewCareer(ctx context.Context, name, stageName, genre string) (*types.CareerState, error) {
	if name == "" || stageName == "" {
		return nil, errors.New("name and stage name are required")
	}

	cm.stateLock.Lock()
	defer cm.stateLock.Unlock()

	now := time.Now().UTC()
	player := types.Player{
		Name:        name,
		StageName:   stageName,
		Genre:       genre,
		Fans:        cm.cfg.Game.StartingFans,
		Money:       cm.cfg.Game.StartingMoney,
		Songwriting: cm.cfg.Game.StartingSongwriting,
		Vocals:      cm.cfg.Game.StartingVocals,
		Production:  cm.cfg.Game.StartingProduction,
		Charisma:    cm.cfg.Game.StartingCharisma,
	}
	player.NormalizeFollowers()

	cm.state = &types.CareerState{
		Player:     player,
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Week:       0,
		Unreleased: make([]types.Song, 0),
		Released:   make([]types.Song, 0),
		Trending:   cm.oracle.TrendingTopics(ctx),
	}

	cm.Logger.Info("new career started",
		zap.String("stage_name", stageName),
		zap.String("genre", genre))

	cm.saveLocked()
	return cm.snapshotLocked(), nil
}

// HasCareer reports whether a career is loaded.
func (cm *CareerManager) HasCareer() bool {
	cm.stateLock.RLock()
	defer cm.stateLock.RUnlock()
	return cm.state != nil
}

// Snapshot returns a deep copy of the current career state.
func (cm *CareerManager) Snapshot() (*types.CareerState, error) {
	cm.stateLock.RLock()
	defer cm.stateLock.RUnlock()

	if cm.state == nil {
		return nil, ErrNoCareer
	}
	return cm.snapshotLocked(), nil
}

// Labels returns the label catalog ordered by prestige.
func (cm *CareerManager) Labels() []types.Label {
	cm.stateLock.RLock()
	defer cm.stateLock.RUnlock()

	labels := make([]types.Label, 0, len(cm.labels))
	for _, label := range cm.labels {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Prestige != labels[j].Prestige {
			return labels[i].Prestige < labels[j].Prestige
		}
		return labels[i].ID < labels[j].ID
	})
	return labels
}

// CareerSummary asks the oracle for a one-sentence recap of the career.
func (cm *CareerManager) CareerSummary(ctx context.Context) (string, error) {
	cm.stateLock.RLock()
	if cm.state == nil {
		cm.stateLock.RUnlock()
		return "", ErrNoCareer
	}
	snap := oracle.Snapshot{
		StageName:  cm.state.Player.StageName,
		Genre:      cm.state.Player.Genre,
		Fans:       cm.state.Player.Fans,
		Fame:       cm.state.Player.Fame,
		Money:      cm.state.Player.Money,
		SongCount:  len(cm.state.Released) + len(cm.state.Unreleased),
		AwardCount: len(cm.state.Awards),
	}
	cm.stateLock.RUnlock()

	return cm.oracle.CareerSummary(ctx, snap), nil
}

// snapshotLocked deep-copies the state through a JSON round trip. Callers
// hold at least the read lock.
func (cm *CareerManager) snapshotLocked() *types.CareerState {
	data, err := json.Marshal(cm.state)
	if err != nil {
		// CareerState is plain data; marshal cannot fail on it.
		panic(fmt.Sprintf("career state snapshot: %v", err))
	}
	var copied types.CareerState
	if err := json.Unmarshal(data, &copied); err != nil {
		panic(fmt.Sprintf("career state snapshot: %v", err))
	}
	return &copied
}

// saveLocked persists the snapshot after a successful commit. Persistence is
// a side effect: a failed save is logged and never rolls back memory state.
func (cm *CareerManager) saveLocked() {
	if cm.state == nil {
		return
	}
	if err := cm.storage.Save(cm.state); err != nil {
		cm.Logger.Error("failed to save career state", zap.Error(err))
	}
}

// labelFor resolves the player's current label, defaulting to self-release.
func (cm *CareerManager) labelFor(player *types.Player) types.Label {
	if player.LabelID != "" {
		if label, ok := cm.labels[player.LabelID]; ok {
			return label
		}
	}
	return types.Label{ID: "self", Name: "Self-Released", RevenueSplit: 100}
}

// artistName is the display name used in generated flavor content.
func artistName(player *types.Player) string {
	if player.StageName != "" {
		return player.StageName
	}
	return player.Name
}
