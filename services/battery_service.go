package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/NomadCrew/school-dashboard/internal/metrics"
	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/store"
	"go.uber.org/zap"
)

// BatteryKey is the KV key holding the last reported level.
const BatteryKey = "battery_level"

// BatteryServiceInterface records and returns the device battery level.
type BatteryServiceInterface interface {
	Record(ctx context.Context, level string) (string, error)
	Last(ctx context.Context) (string, error)
}

type BatteryService struct {
	kv  store.KVStore
	log *zap.SugaredLogger
}

var _ BatteryServiceInterface = (*BatteryService)(nil)

func NewBatteryService(kv store.KVStore) *BatteryService {
	return &BatteryService{kv: kv, log: logger.GetLogger()}
}

// ParseBatteryLevel accepts a decimal number between 0 and 100 inclusive.
func ParseBatteryLevel(level string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(level), 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBattery, level)
	}
	return v, nil
}

// Record validates and stores level without expiry, then reads it back so the
// confirmation reflects what the store actually holds.
func (s *BatteryService) Record(ctx context.Context, level string) (string, error) {
	v, err := ParseBatteryLevel(level)
	if err != nil {
		return "", err
	}

	stored := strings.TrimSpace(level)
	if err := s.kv.Set(ctx, BatteryKey, []byte(stored), 0); err != nil {
		s.log.Errorw("Failed to store battery level", "level", stored, "error", err)
		return "", fmt.Errorf("store battery level: %w", err)
	}
	metrics.Get().BatteryLevel.Set(v)

	return s.Last(ctx)
}

// Last returns the stored level or store.ErrNotFound.
func (s *BatteryService) Last(ctx context.Context) (string, error) {
	val, err := s.kv.Get(ctx, BatteryKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Errorw("Failed to read battery level", "error", err)
		}
		return "", err
	}
	return string(val), nil
}
