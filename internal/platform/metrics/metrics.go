// Package metrics provides observability for the simulation server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and domain counters.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Event log metrics
	EventsWritten    int64
	EventWriteLatSum int64
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// Domain counters
	EffectsApplied     int64
	EffectsExpired     int64
	CampfireTicks      int64
	BrothPotRecipes    int64
	ProjectilesFired   int64
	ProjectileImpacts  int64
	PlayerDeaths       int64
	CorpsesRestored    int64

	StartTime time.Time
	mu        sync.RWMutex
}

var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}
	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordEventWrite records an event write to the database.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))
	if int64(latency) > atomic.LoadInt64(&c.EventWriteLatMax) {
		atomic.StoreInt64(&c.EventWriteLatMax, int64(latency))
	}
	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection count changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records a WebSocket message in either direction.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordEffectApplied counts one active-effect row insert.
func (c *Collector) RecordEffectApplied() { atomic.AddInt64(&c.EffectsApplied, 1) }

// RecordEffectExpired counts one active-effect row expiry.
func (c *Collector) RecordEffectExpired() { atomic.AddInt64(&c.EffectsExpired, 1) }

// RecordCampfireTick counts one campfire tick reducer invocation.
func (c *Collector) RecordCampfireTick() { atomic.AddInt64(&c.CampfireTicks, 1) }

// RecordBrothPotRecipe counts one completed broth-pot recipe.
func (c *Collector) RecordBrothPotRecipe() { atomic.AddInt64(&c.BrothPotRecipes, 1) }

// RecordProjectileFired counts one projectile launch.
func (c *Collector) RecordProjectileFired() { atomic.AddInt64(&c.ProjectilesFired, 1) }

// RecordProjectileImpact counts one projectile impact resolution.
func (c *Collector) RecordProjectileImpact() { atomic.AddInt64(&c.ProjectileImpacts, 1) }

// RecordPlayerDeath counts one death/corpse-creation event.
func (c *Collector) RecordPlayerDeath() { atomic.AddInt64(&c.PlayerDeaths, 1) }

// RecordCorpseRestored counts one reconnect corpse restoration.
func (c *Collector) RecordCorpseRestored() { atomic.AddInt64(&c.CorpsesRestored, 1) }

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	var tickAvg, eventAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6
	}
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"domain": map[string]interface{}{
			"effects_applied":    atomic.LoadInt64(&c.EffectsApplied),
			"effects_expired":    atomic.LoadInt64(&c.EffectsExpired),
			"campfire_ticks":     atomic.LoadInt64(&c.CampfireTicks),
			"broth_pot_recipes":  atomic.LoadInt64(&c.BrothPotRecipes),
			"projectiles_fired":  atomic.LoadInt64(&c.ProjectilesFired),
			"projectile_impacts": atomic.LoadInt64(&c.ProjectileImpacts),
			"player_deaths":      atomic.LoadInt64(&c.PlayerDeaths),
			"corpses_restored":   atomic.LoadInt64(&c.CorpsesRestored),
		},
	}
}

// Handler returns an HTTP handler for the JSON metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(collector.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus text exposition format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		c := collector

		fmt.Fprintf(w, "# HELP ember_tick_count Total tick cycles\n")
		fmt.Fprintf(w, "# TYPE ember_tick_count counter\n")
		fmt.Fprintf(w, "ember_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP ember_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE ember_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "ember_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP ember_events_written Total events written\n")
		fmt.Fprintf(w, "# TYPE ember_events_written counter\n")
		fmt.Fprintf(w, "ember_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP ember_event_write_errors Total event write errors\n")
		fmt.Fprintf(w, "# TYPE ember_event_write_errors counter\n")
		fmt.Fprintf(w, "ember_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP ember_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE ember_ws_connections gauge\n")
		fmt.Fprintf(w, "ember_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP ember_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE ember_ws_messages_total counter\n")
		fmt.Fprintf(w, "ember_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "ember_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		fmt.Fprintf(w, "# HELP ember_effects_applied Total active-effect rows inserted\n")
		fmt.Fprintf(w, "# TYPE ember_effects_applied counter\n")
		fmt.Fprintf(w, "ember_effects_applied %d\n\n", atomic.LoadInt64(&c.EffectsApplied))

		fmt.Fprintf(w, "# HELP ember_projectiles_fired Total projectiles fired\n")
		fmt.Fprintf(w, "# TYPE ember_projectiles_fired counter\n")
		fmt.Fprintf(w, "ember_projectiles_fired %d\n\n", atomic.LoadInt64(&c.ProjectilesFired))

		fmt.Fprintf(w, "# HELP ember_player_deaths Total player deaths\n")
		fmt.Fprintf(w, "# TYPE ember_player_deaths counter\n")
		fmt.Fprintf(w, "ember_player_deaths %d\n", atomic.LoadInt64(&c.PlayerDeaths))
	}
}
