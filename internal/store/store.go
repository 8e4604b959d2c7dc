// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/krishimitra/server/internal/domain"
)

// Repository defines the interface for persisting sensor, device, and
// forum data.
type Repository interface {
	// AppendReading stores one sensor sample.
	AppendReading(ctx context.Context, r *domain.SensorReading) error

	// LatestReading returns the most recent sample, or nil when none exists.
	LatestReading(ctx context.Context) (*domain.SensorReading, error)

	// RecentReadings returns up to limit samples, newest first.
	RecentReadings(ctx context.Context, limit int) ([]*domain.SensorReading, error)

	// PruneReadings removes samples older than the retention window and
	// returns how many were deleted.
	PruneReadings(ctx context.Context, retention time.Duration) (int64, error)

	// DeviceState returns the current device settings, creating defaults
	// on first use.
	DeviceState(ctx context.Context) (*domain.DeviceState, error)

	// SetThreshold updates the irrigation moisture threshold.
	SetThreshold(ctx context.Context, threshold float64) error

	// SetIrrigation toggles irrigation.
	SetIrrigation(ctx context.Context, on bool) error

	// ListPosts returns up to limit forum posts, newest first.
	ListPosts(ctx context.Context, limit int) ([]*domain.ForumPost, error)

	// CreatePost stores a new forum post.
	CreatePost(ctx context.Context, p *domain.ForumPost) error

	// LikePost increments a post's like counter. Returns ErrPostNotFound
	// for unknown ids.
	LikePost(ctx context.Context, id string) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
