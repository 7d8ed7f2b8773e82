package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/Amund211/awardtracker/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const repositoryTimeout = 5 * time.Second

type AwardRegistry interface {
	Get(id string) (domain.AwardDefinition, bool)
}

type ProgressRepository interface {
	Load(ctx context.Context, playerID string) ([]domain.PlayerAward, error)
	Save(ctx context.Context, playerID string, awards []domain.PlayerAward) error
}

type ClientNotifier interface {
	NotifyUnlock(ctx context.Context, playerID string, award domain.AwardDefinition) error
}

type UnlockPublisher interface {
	Publish(ctx context.Context, event domain.AwardUnlocked)
}

type storeMetricsCollection struct {
	unlockCount  metric.Int64Counter
	saveFailures metric.Int64Counter
	skippedSaves metric.Int64Counter
}

func setupStoreMetrics(meter metric.Meter) (storeMetricsCollection, error) {
	unlockCount, err := meter.Int64Counter("progress/unlock_count")
	if err != nil {
		return storeMetricsCollection{}, fmt.Errorf("failed to create unlock count metric: %w", err)
	}

	saveFailures, err := meter.Int64Counter("progress/save_failures")
	if err != nil {
		return storeMetricsCollection{}, fmt.Errorf("failed to create save failures metric: %w", err)
	}

	skippedSaves, err := meter.Int64Counter("progress/skipped_saves")
	if err != nil {
		return storeMetricsCollection{}, fmt.Errorf("failed to create skipped saves metric: %w", err)
	}

	return storeMetricsCollection{
		unlockCount:  unlockCount,
		saveFailures: saveFailures,
		skippedSaves: skippedSaves,
	}, nil
}

type playerState struct {
	mutex sync.Mutex

	// Insertion order is kept so the persisted order is stable
	records []domain.PlayerAward

	// Set when the state has been replaced or unloaded. Waiters must not touch it afterwards.
	evicted bool

	// Set when the stored records couldn't be read. Saving would overwrite them, so nothing is
	// written until the player is loaded successfully.
	loadFailed bool
}

func (p *playerState) find(awardID string) *domain.PlayerAward {
	for i := range p.records {
		if p.records[i].AwardID == awardID {
			return &p.records[i]
		}
	}
	return nil
}

func (p *playerState) snapshot() []domain.PlayerAward {
	records := make([]domain.PlayerAward, 0, len(p.records))
	for _, record := range p.records {
		records = append(records, record.Copy())
	}
	return records
}

// Store holds the award records of every connected player
type Store struct {
	registry   AwardRegistry
	repository ProgressRepository
	notifier   ClientNotifier
	publisher  UnlockPublisher
	nowFunc    func() time.Time

	players map[string]*playerState
	mutex   sync.RWMutex

	metrics storeMetricsCollection
	tracer  trace.Tracer
}

func NewStore(
	registry AwardRegistry,
	repository ProgressRepository,
	notifier ClientNotifier,
	publisher UnlockPublisher,
	nowFunc func() time.Time,
) (*Store, error) {
	const name = "awardtracker/progress"

	metrics, err := setupStoreMetrics(otel.Meter(name))
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	return &Store{
		registry:   registry,
		repository: repository,
		notifier:   notifier,
		publisher:  publisher,
		nowFunc:    nowFunc,

		players: make(map[string]*playerState),

		metrics: metrics,
		tracer:  otel.Tracer(name),
	}, nil
}

// LoadPlayer replaces any in-memory records of the player with the stored ones.
// Players without stored data, or with data that can't be read, start with no records.
// Records of a player whose data couldn't be read are kept in memory only.
func (s *Store) LoadPlayer(ctx context.Context, playerID string) {
	ctx, span := s.tracer.Start(ctx, "Store.LoadPlayer", trace.WithAttributes(attribute.String("player_id", playerID)))
	defer span.End()

	logger := logging.FromContext(ctx).With(slog.String("playerId", playerID))

	// Detached so a dropped request doesn't install an empty set over the stored one
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), repositoryTimeout)
	records, err := s.repository.Load(loadCtx, playerID)
	cancel()
	loadFailed := false
	if err != nil {
		// The repository reports unexpected errors itself
		if !errors.Is(err, domain.ErrPlayerDataNotFound) {
			logger.ErrorContext(ctx, "Failed to load player records. Starting from an empty set without saving.", "error", err)
			loadFailed = true
		}
		records = []domain.PlayerAward{}
	}

	state := &playerState{records: records, loadFailed: loadFailed}

	s.mutex.Lock()
	previous := s.players[playerID]
	s.players[playerID] = state
	s.mutex.Unlock()

	if previous != nil {
		previous.mutex.Lock()
		previous.evicted = true
		previous.mutex.Unlock()
	}

	logger.InfoContext(ctx, "Loaded player", slog.Int("recordCount", len(records)))
}

// UnloadPlayer evicts the player's records without persisting them. No-op if the player is not loaded.
func (s *Store) UnloadPlayer(ctx context.Context, playerID string) {
	s.mutex.Lock()
	state, ok := s.players[playerID]
	delete(s.players, playerID)
	s.mutex.Unlock()

	if !ok {
		return
	}

	state.mutex.Lock()
	state.evicted = true
	state.mutex.Unlock()

	logging.FromContext(ctx).InfoContext(ctx, "Unloaded player", slog.String("playerId", playerID))
}

// UnloadAll evicts every loaded player
func (s *Store) UnloadAll(ctx context.Context) {
	for _, playerID := range s.LoadedPlayers() {
		s.UnloadPlayer(ctx, playerID)
	}
}

// LoadedPlayers returns the ids of all loaded players, sorted
func (s *Store) LoadedPlayers() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	playerIDs := make([]string, 0, len(s.players))
	for playerID := range s.players {
		playerIDs = append(playerIDs, playerID)
	}
	slices.Sort(playerIDs)
	return playerIDs
}

func (s *Store) IsLoaded(playerID string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, ok := s.players[playerID]
	return ok
}

// withPlayer runs fn while holding the player's lock
func (s *Store) withPlayer(playerID string, fn func(state *playerState) error) error {
	s.mutex.RLock()
	state, ok := s.players[playerID]
	s.mutex.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotLoaded, playerID)
	}

	state.mutex.Lock()
	defer state.mutex.Unlock()

	if state.evicted {
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotLoaded, playerID)
	}

	return fn(state)
}

func (s *Store) getAward(awardID string) (domain.AwardDefinition, error) {
	award, ok := s.registry.Get(awardID)
	if !ok {
		return domain.AwardDefinition{}, fmt.Errorf("%w: %s", domain.ErrAwardNotFound, awardID)
	}
	return award, nil
}

// persist writes the full record set of the player. Must be called with the player lock held.
//
// Failures leave the in-memory state authoritative, the next mutation writes the full set again.
func (s *Store) persist(ctx context.Context, playerID string, state *playerState) {
	if state.loadFailed {
		s.metrics.skippedSaves.Add(ctx, 1)
		logging.FromContext(ctx).WarnContext(
			ctx,
			"Not saving player records since the stored ones could not be loaded",
			slog.String("playerId", playerID),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), repositoryTimeout)
	defer cancel()

	err := s.repository.Save(ctx, playerID, state.snapshot())
	if err != nil {
		s.metrics.saveFailures.Add(ctx, 1)
		logging.FromContext(ctx).ErrorContext(
			ctx,
			"Failed to save player records",
			slog.String("playerId", playerID),
			"error", err,
		)
	}
}

// Save persists the player's records.
// Returns ErrStoredDataUnreadable if the player's stored records could not be loaded.
func (s *Store) Save(ctx context.Context, playerID string) error {
	ctx, span := s.tracer.Start(ctx, "Store.Save", trace.WithAttributes(attribute.String("player_id", playerID)))
	defer span.End()

	return s.withPlayer(playerID, func(state *playerState) error {
		if state.loadFailed {
			return fmt.Errorf("%w: %s", domain.ErrStoredDataUnreadable, playerID)
		}
		s.persist(ctx, playerID, state)
		return nil
	})
}

// AddProgress adds delta to the player's progress toward the award, unlocking it if the threshold is reached
func (s *Store) AddProgress(ctx context.Context, playerID, awardID string, delta int) error {
	return s.updateProgress(ctx, "Store.AddProgress", playerID, awardID, func(current int) int {
		return current + delta
	})
}

// SetProgress sets the player's progress toward the award, unlocking it if the threshold is reached.
// Unlocked awards are never locked again by lowering the progress.
func (s *Store) SetProgress(ctx context.Context, playerID, awardID string, value int) error {
	return s.updateProgress(ctx, "Store.SetProgress", playerID, awardID, func(int) int {
		return value
	})
}

func (s *Store) updateProgress(ctx context.Context, spanName, playerID, awardID string, update func(current int) int) error {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("player_id", playerID),
		attribute.String("award_id", awardID),
	))
	defer span.End()

	award, err := s.getAward(awardID)
	if err != nil {
		return err
	}

	var unlockedAt *time.Time
	err = s.withPlayer(playerID, func(state *playerState) error {
		record := state.find(awardID)
		changed := false
		if record == nil {
			state.records = append(state.records, domain.PlayerAward{AwardID: awardID})
			record = &state.records[len(state.records)-1]
			changed = true
		}

		progress := update(record.Progress)
		if progress != record.Progress {
			record.Progress = progress
			changed = true
		}

		if !record.Unlocked && record.Progress >= award.RequiredProgress {
			now := s.nowFunc()
			record.MarkUnlocked(now)
			unlockedAt = &now
			changed = true
		}

		if changed {
			s.persist(ctx, playerID, state)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if unlockedAt != nil {
		s.announceUnlock(ctx, playerID, award, *unlockedAt)
	}

	return nil
}

// Unlock unlocks the award for the player. Missing records are created at the required progress.
// Unlocking an already unlocked award is a no-op.
func (s *Store) Unlock(ctx context.Context, playerID, awardID string) error {
	ctx, span := s.tracer.Start(ctx, "Store.Unlock", trace.WithAttributes(
		attribute.String("player_id", playerID),
		attribute.String("award_id", awardID),
	))
	defer span.End()

	award, err := s.getAward(awardID)
	if err != nil {
		return err
	}

	var unlockedAt *time.Time
	err = s.withPlayer(playerID, func(state *playerState) error {
		record := state.find(awardID)
		if record == nil {
			state.records = append(state.records, domain.PlayerAward{
				AwardID:  awardID,
				Progress: award.RequiredProgress,
			})
			record = &state.records[len(state.records)-1]
		}

		if record.Unlocked {
			return nil
		}

		now := s.nowFunc()
		record.MarkUnlocked(now)
		unlockedAt = &now

		s.persist(ctx, playerID, state)
		return nil
	})
	if err != nil {
		return err
	}

	if unlockedAt != nil {
		s.announceUnlock(ctx, playerID, award, *unlockedAt)
	}

	return nil
}

// Lock clears the unlocked state of the player's record for the award. Progress is kept.
func (s *Store) Lock(ctx context.Context, playerID, awardID string) error {
	ctx, span := s.tracer.Start(ctx, "Store.Lock", trace.WithAttributes(
		attribute.String("player_id", playerID),
		attribute.String("award_id", awardID),
	))
	defer span.End()

	if _, err := s.getAward(awardID); err != nil {
		return err
	}

	return s.withPlayer(playerID, func(state *playerState) error {
		record := state.find(awardID)
		if record == nil {
			return fmt.Errorf("%w: %s/%s", domain.ErrRecordNotFound, playerID, awardID)
		}

		if !record.Unlocked {
			return nil
		}

		record.MarkLocked()
		s.persist(ctx, playerID, state)
		return nil
	})
}

// Remove deletes the player's record for the award
func (s *Store) Remove(ctx context.Context, playerID, awardID string) error {
	ctx, span := s.tracer.Start(ctx, "Store.Remove", trace.WithAttributes(
		attribute.String("player_id", playerID),
		attribute.String("award_id", awardID),
	))
	defer span.End()

	if _, err := s.getAward(awardID); err != nil {
		return err
	}

	return s.withPlayer(playerID, func(state *playerState) error {
		index := slices.IndexFunc(state.records, func(record domain.PlayerAward) bool {
			return record.AwardID == awardID
		})
		if index == -1 {
			return fmt.Errorf("%w: %s/%s", domain.ErrRecordNotFound, playerID, awardID)
		}

		state.records = slices.Delete(state.records, index, index+1)
		s.persist(ctx, playerID, state)
		return nil
	})
}

// RemoveAll deletes every record of the player
func (s *Store) RemoveAll(ctx context.Context, playerID string) error {
	ctx, span := s.tracer.Start(ctx, "Store.RemoveAll", trace.WithAttributes(attribute.String("player_id", playerID)))
	defer span.End()

	return s.withPlayer(playerID, func(state *playerState) error {
		state.records = []domain.PlayerAward{}
		s.persist(ctx, playerID, state)
		return nil
	})
}

// Record returns a copy of the player's record for the award, and whether it exists
func (s *Store) Record(ctx context.Context, playerID, awardID string) (domain.PlayerAward, bool, error) {
	if _, err := s.getAward(awardID); err != nil {
		return domain.PlayerAward{}, false, err
	}

	var record domain.PlayerAward
	var found bool
	err := s.withPlayer(playerID, func(state *playerState) error {
		if stored := state.find(awardID); stored != nil {
			record = stored.Copy()
			found = true
		}
		return nil
	})
	if err != nil {
		return domain.PlayerAward{}, false, err
	}

	return record, found, nil
}

// Progress returns the player's progress toward the award, or 0 if there is no record
func (s *Store) Progress(ctx context.Context, playerID, awardID string) (int, error) {
	record, _, err := s.Record(ctx, playerID, awardID)
	if err != nil {
		return 0, err
	}
	return record.Progress, nil
}

// IsUnlocked returns false if there is no record
func (s *Store) IsUnlocked(ctx context.Context, playerID, awardID string) (bool, error) {
	record, _, err := s.Record(ctx, playerID, awardID)
	if err != nil {
		return false, err
	}
	return record.Unlocked, nil
}

// UnlockedAt returns nil if the award is not unlocked
func (s *Store) UnlockedAt(ctx context.Context, playerID, awardID string) (*time.Time, error) {
	record, _, err := s.Record(ctx, playerID, awardID)
	if err != nil {
		return nil, err
	}
	return record.UnlockedAt, nil
}

// Records returns a copy of every record of the player, in the order they were created
func (s *Store) Records(ctx context.Context, playerID string) ([]domain.PlayerAward, error) {
	var records []domain.PlayerAward
	err := s.withPlayer(playerID, func(state *playerState) error {
		records = state.snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// announceUnlock notifies the player's client and publishes the unlock in-process.
// Must be called without the player lock held.
func (s *Store) announceUnlock(ctx context.Context, playerID string, award domain.AwardDefinition, unlockedAt time.Time) {
	s.metrics.unlockCount.Add(ctx, 1, metric.WithAttributes(attribute.String("award_id", award.ID)))

	err := s.notifier.NotifyUnlock(ctx, playerID, award)
	if err != nil {
		// The notifier reports its own errors
		logging.FromContext(ctx).WarnContext(
			ctx,
			"Failed to notify client of unlock",
			slog.String("playerId", playerID),
			slog.String("awardId", award.ID),
			"error", err,
		)
	}

	s.publisher.Publish(ctx, domain.AwardUnlocked{
		PlayerID:   playerID,
		AwardID:    award.ID,
		AwardName:  award.Name,
		UnlockedAt: unlockedAt,
	})
}
