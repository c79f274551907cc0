package engine

import (
	"time"

	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/domain/weather"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
)

// RainCollectorSystem owns the rain collector's 1-second tick: passive,
// capacity-bounded water accumulation from the current per-chunk
// weather. It has no fuel or cooking state, unlike every other
// appliance.
type RainCollectorSystem struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger
	weather  weather.Provider
}

// NewRainCollectorSystem builds a rain-collector system. Each collector's
// standing tick job is installed by ScheduleFor when it is registered.
func NewRainCollectorSystem(e *Engine, eventLog *events.EventLog, log *logger.Logger, w weather.Provider) *RainCollectorSystem {
	return &RainCollectorSystem{engine: e, eventLog: eventLog, logger: log, weather: w}
}

// ScheduleFor installs the standing per-second tick job for a newly
// registered rain collector — it always needs work, so there is no
// edge-triggered drop condition the way a campfire or furnace has.
func (s *RainCollectorSystem) ScheduleFor(collectorID string) {
	s.engine.scheduler.Upsert(JobRainCollectorTick, collectorID,
		time.Now().UnixMicro()+int64(time.Second/time.Microsecond), int64(time.Second/time.Microsecond))
}

// Tick advances one rain collector by one second.
func (s *RainCollectorSystem) Tick(collectorID string, now int64) {
	r, ok := s.engine.rainCollectors[collectorID]
	if !ok || r.IsDestroyed {
		return
	}
	w := s.weather.CurrentWeather(r.ChunkID)
	rate := rules.RainWaterMLPerSecF(w.Class())
	if rate > 0 && r.WaterLevelMl < r.CapacityMl {
		r.RainCarryMl += rate
		whole := int(r.RainCarryMl)
		if whole > 0 {
			r.WaterLevelMl += whole
			r.RainCarryMl -= float32(whole)
			if r.WaterLevelMl > r.CapacityMl {
				r.WaterLevelMl = r.CapacityMl
			}
		}
	}
	s.engine.scheduler.Upsert(JobRainCollectorTick, collectorID,
		time.Now().UnixMicro()+int64(time.Second/time.Microsecond), int64(time.Second/time.Microsecond))
}
