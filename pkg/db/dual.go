// Dual-store write-through for deployments migrating between a primary and
// a legacy likes database. Writes go to both stores in sequence; a failure
// on one store is logged and never rolls back a write already committed to
// the other.
package db

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// LikesStore is the repository contract consumed by the request handlers.
// *Store satisfies it directly; DualStore composes two of them.
type LikesStore interface {
	LikedSongs(ctx context.Context, userID string) ([]string, error)
	SaveLikedSongs(ctx context.Context, userID string, songs []string) error
}

// DualStore writes liked songs to a primary and a legacy store
// synchronously, primary first. Reads prefer the primary and fall back to
// the legacy store only when the primary read fails.
type DualStore struct {
	Primary LikesStore
	Legacy  LikesStore
	Log     *logrus.Logger
}

var _ LikesStore = (*DualStore)(nil)

func (d *DualStore) log() *logrus.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logrus.StandardLogger()
}

// LikedSongs reads from the primary store, consulting the legacy store only
// on a primary failure.
func (d *DualStore) LikedSongs(ctx context.Context, userID string) ([]string, error) {
	songs, err := d.Primary.LikedSongs(ctx, userID)
	if err == nil {
		return songs, nil
	}
	d.log().WithError(err).Warn("primary likes read failed, trying legacy store")
	return d.Legacy.LikedSongs(ctx, userID)
}

// SaveLikedSongs applies the diff to both stores. Each failure is logged;
// an error is returned only when both writes failed so callers treat a
// single-store outage as a degraded success.
func (d *DualStore) SaveLikedSongs(ctx context.Context, userID string, songs []string) error {
	errPrimary := d.Primary.SaveLikedSongs(ctx, userID, songs)
	if errPrimary != nil {
		d.log().WithError(errPrimary).Error("primary likes write failed")
	}
	errLegacy := d.Legacy.SaveLikedSongs(ctx, userID, songs)
	if errLegacy != nil {
		d.log().WithError(errLegacy).Error("legacy likes write failed")
	}
	if errPrimary != nil && errLegacy != nil {
		return errors.Join(errPrimary, errLegacy)
	}
	return nil
}
