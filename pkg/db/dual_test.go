package db

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// failingStore implements LikesStore and always fails.
type failingStore struct{}

func (failingStore) LikedSongs(context.Context, string) ([]string, error) {
	return nil, errors.New("store offline")
}

func (failingStore) SaveLikedSongs(context.Context, string, []string) error {
	return errors.New("store offline")
}

// TestDualStoreWritesBoth verifies a healthy pair receives the same diff.
func TestDualStoreWritesBoth(t *testing.T) {
	primary, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer primary.Close()
	legacy, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer legacy.Close()
	ctx := context.Background()

	d := &DualStore{Primary: primary, Legacy: legacy}
	if err := d.SaveLikedSongs(ctx, "u", []string{"A"}); err != nil {
		t.Fatal(err)
	}
	p, _ := primary.LikedSongs(ctx, "u")
	l, _ := legacy.LikedSongs(ctx, "u")
	if !reflect.DeepEqual(p, l) || len(p) != 1 {
		t.Fatalf("stores diverged: primary=%v legacy=%v", p, l)
	}
}

// TestDualStoreSingleFailureIsDegradedSuccess verifies one failing store
// does not fail the write or roll back the committed one.
func TestDualStoreSingleFailureIsDegradedSuccess(t *testing.T) {
	primary, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer primary.Close()
	ctx := context.Background()

	d := &DualStore{Primary: primary, Legacy: failingStore{}}
	if err := d.SaveLikedSongs(ctx, "u", []string{"A"}); err != nil {
		t.Fatalf("single-store failure must not surface: %v", err)
	}
	p, _ := primary.LikedSongs(ctx, "u")
	if len(p) != 1 {
		t.Fatalf("primary write rolled back: %v", p)
	}
}

// TestDualStoreTotalFailure verifies an error surfaces only when both
// stores failed.
func TestDualStoreTotalFailure(t *testing.T) {
	d := &DualStore{Primary: failingStore{}, Legacy: failingStore{}}
	if err := d.SaveLikedSongs(context.Background(), "u", []string{"A"}); err == nil {
		t.Fatal("expected error when both stores fail")
	}
}

// TestDualStoreReadFallsBack verifies reads consult the legacy store when
// the primary read fails.
func TestDualStoreReadFallsBack(t *testing.T) {
	legacy, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer legacy.Close()
	ctx := context.Background()
	if err := legacy.SaveLikedSongs(ctx, "u", []string{"A"}); err != nil {
		t.Fatal(err)
	}

	d := &DualStore{Primary: failingStore{}, Legacy: legacy}
	songs, err := d.LikedSongs(ctx, "u")
	if err != nil || len(songs) != 1 {
		t.Fatalf("expected legacy fallback, got %v %v", songs, err)
	}
}
