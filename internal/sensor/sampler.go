package sensor

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/krishimitra/server/internal/domain"
	"github.com/krishimitra/server/internal/store"
)

const pruneEvery = 12 // prune once per N samples

// Sampler synthesizes device readings on a fixed interval. The field
// hardware pushes over LoRa in production; this worker stands in for it
// and keeps the dashboard live in every deployment.
type Sampler struct {
	repo     store.Repository
	interval time.Duration
	logger   *slog.Logger
	notify   func()
	rng      *rand.Rand
}

// NewSampler creates the sampling worker. notify is called after each
// stored sample; pass nil when no live stream needs waking.
func NewSampler(repo store.Repository, interval time.Duration, logger *slog.Logger, notify func()) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sampler{
		repo:     repo,
		interval: interval,
		logger:   logger,
		notify:   notify,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start runs the sampling loop until ctx is cancelled.
func (s *Sampler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		s.logger.Info("Sensor sampler started", "interval", s.interval)

		s.sample(ctx)
		n := 0
		for {
			select {
			case <-ticker.C:
				s.sample(ctx)
				n++
				if n%pruneEvery == 0 {
					s.prune(ctx)
				}
			case <-ctx.Done():
				s.logger.Info("Sensor sampler shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func (s *Sampler) sample(ctx context.Context) {
	prev, err := s.repo.LatestReading(ctx)
	if err != nil {
		s.logger.Error("Sampler failed to load previous reading", "error", err)
		return
	}
	if prev == nil {
		prev = seedReading(time.Now())
	}

	reading := s.next(prev)
	if err := s.repo.AppendReading(ctx, reading); err != nil {
		s.logger.Error("Sampler failed to store reading", "error", err)
		return
	}

	s.logger.Debug("Sensor sample stored",
		"moisture", reading.Moisture,
		"temperature", reading.Temperature,
		"ph", reading.PH)

	if s.notify != nil {
		s.notify()
	}
}

func (s *Sampler) prune(ctx context.Context) {
	deleted, err := s.repo.PruneReadings(ctx, readingRetention)
	if err != nil {
		s.logger.Error("Sampler failed to prune readings", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("Pruned old sensor readings", "count", deleted)
	}
}

// next applies a bounded random walk so consecutive samples stay
// physically plausible.
func (s *Sampler) next(prev *domain.SensorReading) *domain.SensorReading {
	return &domain.SensorReading{
		Moisture:     s.walk(prev.Moisture, 2.0, 10, 90),
		Temperature:  s.walk(prev.Temperature, 0.8, 5, 45),
		PH:           s.walk(prev.PH, 0.1, 4.5, 9.0),
		Salinity:     s.walk(prev.Salinity, 0.05, 0.05, 4.0),
		WaterQuality: s.walk(prev.WaterQuality, 1.5, 30, 100),
		RecordedAt:   time.Now(),
	}
}

func (s *Sampler) walk(prev, step, lo, hi float64) float64 {
	v := prev + (s.rng.Float64()*2-1)*step
	return round1(clamp(v, lo, hi))
}
