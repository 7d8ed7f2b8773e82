package app

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidProgressMode = errors.New("invalid progress mode")

type ProgressMode string

const (
	ProgressModeAdd ProgressMode = "add"
	ProgressModeSet ProgressMode = "set"
)

type UpdateProgress func(ctx context.Context, playerID, awardID string, mode ProgressMode, value int) error

func BuildUpdateProgress(store ProgressStore) UpdateProgress {
	return func(ctx context.Context, playerID, awardID string, mode ProgressMode, value int) error {
		if err := validatePlayerID(playerID); err != nil {
			return err
		}
		if err := validateAwardID(awardID); err != nil {
			return err
		}

		switch mode {
		case ProgressModeAdd:
			return store.AddProgress(ctx, playerID, awardID, value)
		case ProgressModeSet:
			return store.SetProgress(ctx, playerID, awardID, value)
		default:
			return fmt.Errorf("%w: '%.20s'", ErrInvalidProgressMode, mode)
		}
	}
}

// AwardAction is an operation on a single award record of a player
type AwardAction func(ctx context.Context, playerID, awardID string) error

func buildAwardAction(operation func(ctx context.Context, playerID, awardID string) error) AwardAction {
	return func(ctx context.Context, playerID, awardID string) error {
		if err := validatePlayerID(playerID); err != nil {
			return err
		}
		if err := validateAwardID(awardID); err != nil {
			return err
		}

		return operation(ctx, playerID, awardID)
	}
}

func BuildUnlockAward(store ProgressStore) AwardAction {
	return buildAwardAction(store.Unlock)
}

func BuildLockAward(store ProgressStore) AwardAction {
	return buildAwardAction(store.Lock)
}

func BuildRemoveAward(store ProgressStore) AwardAction {
	return buildAwardAction(store.Remove)
}

type RemoveAllAwards func(ctx context.Context, playerID string) error

func BuildRemoveAllAwards(store ProgressStore) RemoveAllAwards {
	return func(ctx context.Context, playerID string) error {
		if err := validatePlayerID(playerID); err != nil {
			return err
		}

		return store.RemoveAll(ctx, playerID)
	}
}
