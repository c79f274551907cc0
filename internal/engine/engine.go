package engine

import (
	"context"
	"time"

	"github.com/emberreach/server/internal/domain/appliance"
	"github.com/emberreach/server/internal/domain/corpse"
	"github.com/emberreach/server/internal/domain/effect"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/player"
	"github.com/emberreach/server/internal/domain/projectile"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/domain/weather"
	"github.com/emberreach/server/internal/domain/world"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
)

// Engine is the central orchestrator: it owns the in-memory table state,
// the Scheduler of pending reducer invocations, and the event log every
// reducer appends to. A single goroutine (processEvents) drains the log
// and fans events out to subsystems, and a second single goroutine
// (Driver.Run) pops due scheduled jobs and turns them into events — so
// no two reducers ever touch overlapping state concurrently.
type Engine struct {
	eventLog  *events.EventLog
	logger    *logger.Logger
	scheduler *Scheduler
	driver    *Driver

	effectSystem        *EffectSystem
	campfireSystem      *CampfireSystem
	brothPotSystem      *BrothPotSystem
	furnaceSystem       *FurnaceSystem
	rainCollectorSystem *RainCollectorSystem
	projectileSystem    *ProjectileSystem
	corpseSystem        *CorpseSystem
	proximitySystem     *ProximitySystem
	inventorySystem     *InventorySystem
	metabolismSystem    *MetabolismSystem

	lastProcessedEvent int

	players        map[string]*player.Player
	effects        map[string]*effect.ActiveConsumableEffect
	campfires      map[string]*appliance.Campfire
	brothPots      map[string]*appliance.BrothPot
	furnaces       map[string]*appliance.Furnace
	rainCollectors map[string]*appliance.RainCollector
	corpses        map[string]*corpse.PlayerCorpse
	projectiles    map[string]*projectile.Projectile
	walls          map[string]*world.Wall
	shelters       map[string]*world.Shelter
	shipwreckZones map[string]*world.ShipwreckZone
	trees          map[string]*world.Tree
	safeZones      map[string]*world.SafeZone
}

// NewEngine wires the scheduler, event log, and every subsystem against
// shared in-memory state maps.
func NewEngine(eventLog *events.EventLog, log *logger.Logger, weatherProvider weather.Provider) *Engine {
	e := &Engine{
		eventLog:  eventLog,
		logger:    log,
		scheduler: NewScheduler(),

		players:        make(map[string]*player.Player),
		effects:        make(map[string]*effect.ActiveConsumableEffect),
		campfires:      make(map[string]*appliance.Campfire),
		brothPots:      make(map[string]*appliance.BrothPot),
		furnaces:       make(map[string]*appliance.Furnace),
		rainCollectors: make(map[string]*appliance.RainCollector),
		corpses:        make(map[string]*corpse.PlayerCorpse),
		projectiles:    make(map[string]*projectile.Projectile),
		walls:          make(map[string]*world.Wall),
		shelters:       make(map[string]*world.Shelter),
		shipwreckZones: make(map[string]*world.ShipwreckZone),
		trees:          make(map[string]*world.Tree),
		safeZones:      make(map[string]*world.SafeZone),
	}

	e.driver = NewDriver(e, log)

	e.effectSystem = NewEffectSystem(e, eventLog, log, weatherProvider)
	e.campfireSystem = NewCampfireSystem(e, eventLog, log, weatherProvider)
	e.brothPotSystem = NewBrothPotSystem(e, eventLog, log, weatherProvider)
	e.furnaceSystem = NewFurnaceSystem(e, eventLog, log)
	e.rainCollectorSystem = NewRainCollectorSystem(e, eventLog, log, weatherProvider)
	e.projectileSystem = NewProjectileSystem(e, eventLog, log)
	e.corpseSystem = NewCorpseSystem(e, eventLog, log)
	e.proximitySystem = NewProximitySystem(e, log)
	e.inventorySystem = NewInventorySystem(e, eventLog, log)
	e.metabolismSystem = NewMetabolismSystem(e, eventLog, log)

	e.corpseSystem.SetInventorySource(e.inventorySystem.Snapshot)
	e.corpseSystem.SetInventoryRestorer(e.inventorySystem.Restore)

	// The effect, projectile, and metabolism ticks are global singleton
	// jobs; every appliance instead schedules its own per-entity job on
	// demand (edge-triggered: only while it "needs work").
	now := time.Now().UnixMicro()
	e.scheduler.Upsert(JobEffectTick, "global", now+int64(time.Second/time.Microsecond), int64(time.Second/time.Microsecond))
	e.scheduler.Upsert(JobProjectileTick, "global", now+DriverIntervalMicros, DriverIntervalMicros)
	e.scheduler.Upsert(JobMetabolismTick, "global", now+MetabolismTickIntervalMicros, MetabolismTickIntervalMicros)

	return e
}

// Start spawns the tick driver and the event-dispatch loop.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting core simulation engine...")
	go e.driver.Run(ctx)
	go e.processEvents(ctx)
}

// GetEventLog exposes the event log to the transport layer (reducer
// calls arrive as appended events; broadcasts are read from Replay).
func (e *Engine) GetEventLog() *events.EventLog {
	return e.eventLog
}

// RegisterPlayer adds a new player to engine state and the proximity
// scanner.
func (e *Engine) RegisterPlayer(p *player.Player) {
	e.players[p.ID] = p
	e.proximitySystem.RegisterPlayer(p)
}

// GetPlayer returns the live player row, or nil if unknown.
func (e *Engine) GetPlayer(id string) *player.Player { return e.players[id] }

// GetPlayers returns the live player map (not a copy — callers on the
// dispatch goroutine only).
func (e *Engine) GetPlayers() map[string]*player.Player { return e.players }

// RegisterCampfire adds a campfire to engine state.
func (e *Engine) RegisterCampfire(c *appliance.Campfire) { e.campfires[c.ID] = c }

// RegisterBrothPot adds a broth-pot to engine state.
func (e *Engine) RegisterBrothPot(p *appliance.BrothPot) { e.brothPots[p.ID] = p }

// RegisterFurnace adds a furnace to engine state.
func (e *Engine) RegisterFurnace(f *appliance.Furnace) { e.furnaces[f.ID] = f }

// RegisterRainCollector adds a rain collector to engine state and
// starts its standing tick job.
func (e *Engine) RegisterRainCollector(r *appliance.RainCollector) {
	e.rainCollectors[r.ID] = r
	e.rainCollectorSystem.ScheduleFor(r.ID)
}

// GetCampfire returns the live campfire row, or nil if unknown.
func (e *Engine) GetCampfire(id string) *appliance.Campfire { return e.campfires[id] }

// GetBrothPot returns the live broth-pot row, or nil if unknown.
func (e *Engine) GetBrothPot(id string) *appliance.BrothPot { return e.brothPots[id] }

// GetFurnace returns the live furnace row, or nil if unknown.
func (e *Engine) GetFurnace(id string) *appliance.Furnace { return e.furnaces[id] }

// RegisterWall adds a wall/door/fence cell to engine state. Every such
// structure reduces to the same point-collision Wall row at this scope.
func (e *Engine) RegisterWall(w *world.Wall) { e.walls[w.ID] = w }

// GetWall returns the live wall row, or nil if unknown.
func (e *Engine) GetWall(id string) *world.Wall { return e.walls[id] }

// RegisterShelter adds an enclosed-building footprint to engine state.
func (e *Engine) RegisterShelter(s *world.Shelter) { e.shelters[s.ID] = s }

// RegisterShipwreckZone adds a shipwreck interior footprint to engine
// state.
func (e *Engine) RegisterShipwreckZone(z *world.ShipwreckZone) { e.shipwreckZones[z.ID] = z }

// RegisterTree adds a tree obstacle to engine state.
func (e *Engine) RegisterTree(t *world.Tree) { e.trees[t.ID] = t }

// RegisterSafeZone adds a no-raid zone to engine state.
func (e *Engine) RegisterSafeZone(z *world.SafeZone) { e.safeZones[z.ID] = z }

// IsInSafeZone reports whether (x, y) falls inside any registered
// safe zone — the gate behind single-active-user appliance exclusivity.
func (e *Engine) IsInSafeZone(x, y float32) bool {
	for _, z := range e.safeZones {
		if z.Contains(x, y) {
			return true
		}
	}
	return false
}

// IsInsideBuilding reports whether (x, y) falls inside any registered
// shelter or shipwreck-zone footprint — the shared "inside a building"
// test behind BuildingPrivilege and the campfire lighting gate.
func (e *Engine) IsInsideBuilding(x, y float32) bool {
	for _, s := range e.shelters {
		if s.Contains(x, y) {
			return true
		}
	}
	for _, z := range e.shipwreckZones {
		if z.Contains(x, y) {
			return true
		}
	}
	return false
}

// IsNearTreeCover reports whether (x, y) sits within
// CampfireRelightTreeRadiusPx of any registered tree.
func (e *Engine) IsNearTreeCover(x, y float32) bool {
	for _, t := range e.trees {
		dx, dy := x-t.X, y-t.Y
		if dx*dx+dy*dy <= rules.CampfireRelightTreeRadiusPx*rules.CampfireRelightTreeRadiusPx {
			return true
		}
	}
	return false
}

// ActiveEffectCount returns the number of live active-effect rows, for
// telemetry sampling.
func (e *Engine) ActiveEffectCount() int { return len(e.effects) }

// BurningApplianceCount returns the number of campfires and broth-pots
// currently burning/cooking, for telemetry sampling.
func (e *Engine) BurningApplianceCount() int {
	n := 0
	for _, c := range e.campfires {
		if c.IsBurning {
			n++
		}
	}
	for _, p := range e.brothPots {
		if p.IsCooking {
			n++
		}
	}
	return n
}

// LiveProjectileCount returns the number of in-flight projectiles, for
// telemetry sampling.
func (e *Engine) LiveProjectileCount() int { return len(e.projectiles) }

// LiveCorpseCount returns the number of corpses (death + offline)
// currently in the world, for telemetry sampling.
func (e *Engine) LiveCorpseCount() int { return len(e.corpses) }

// LightCampfire is the reducer entrypoint for igniting a campfire. The
// shelter/tree-cover check the heavy-rain gate needs is computed
// internally from registered Shelter/ShipwreckZone/Tree state, not
// supplied by the caller.
func (e *Engine) LightCampfire(campfireID string) error {
	return e.campfireSystem.Light(campfireID)
}

// LightFurnace is the reducer entrypoint for igniting a furnace.
func (e *Engine) LightFurnace(furnaceID string) bool {
	return e.furnaceSystem.Light(furnaceID)
}

// AttachBrothPot is the reducer entrypoint for snapping a broth pot to
// an adjacent campfire.
func (e *Engine) AttachBrothPot(potID, campfireID string) bool {
	return e.brothPotSystem.Attach(potID, campfireID)
}

// PickupBrothPot is the reducer entrypoint for reclaiming a placed
// broth-pot. Rejected unless its ingredient and output slots are empty;
// water spills and any slotted water container is dropped beside the
// campfire with its contents intact.
func (e *Engine) PickupBrothPot(potID string) error {
	return e.brothPotSystem.Pickup(potID)
}

// OpenCampfire is the reducer entrypoint for opening a campfire's
// interaction UI. Outside a safe zone this always succeeds; inside one
// it is rejected while another player already holds access.
func (e *Engine) OpenCampfire(campfireID, playerID string) error {
	return e.campfireSystem.Open(campfireID, playerID, time.Now().UnixMicro())
}

// CloseCampfire is the reducer entrypoint for releasing a campfire's
// interaction access.
func (e *Engine) CloseCampfire(campfireID, playerID string) {
	e.campfireSystem.Close(campfireID, playerID)
}

// OpenBrothPot is the reducer entrypoint for opening a broth-pot's
// interaction UI, with the same safe-zone exclusivity rule as
// OpenCampfire.
func (e *Engine) OpenBrothPot(potID, playerID string) error {
	return e.brothPotSystem.Open(potID, playerID, time.Now().UnixMicro())
}

// CloseBrothPot is the reducer entrypoint for releasing a broth-pot's
// interaction access.
func (e *Engine) CloseBrothPot(potID, playerID string) {
	e.brothPotSystem.Close(potID, playerID)
}

// FireProjectile is the reducer entrypoint for a player-fired shot. It
// rejects the shot outright if the shelter self-occlusion guard trips
// (a wall/door/fence within SelfOcclusionGuardRadiusPx of the shooter
// sits on the initial trajectory).
func (e *Engine) FireProjectile(p *projectile.Projectile) error {
	return e.projectileSystem.Fire(p)
}

// DamagePlayer is the reducer entrypoint for direct player-vs-player
// damage outside the projectile ballistic pipeline (melee, explosives).
// It stamps the hit as externally-sourced, which trips the
// BandageBurst/RemoteBandageBurst interruption rule.
func (e *Engine) DamagePlayer(targetID, sourceID string, amount float32) bool {
	return e.effectSystem.ApplyExternalDamage(targetID, sourceID, amount)
}

// SetHeldItem records the def id of whatever item a player currently
// has wielded in hand, distinct from their worn ActiveEquipment armor —
// the input the hot-ladle self-burn scan reads every global tick.
func (e *Engine) SetHeldItem(playerID string, defID item.DefID) {
	p := e.GetPlayer(playerID)
	if p == nil {
		return
	}
	p.HeldItemDefID = defID
}

// RefreshPlayerProximity re-evaluates a moved player's campfire
// cozy/warmth flags against current campfire state. Transport calls
// this after applying a position update.
func (e *Engine) RefreshPlayerProximity(playerID string, inVillage bool) {
	e.proximitySystem.RefreshCozy(playerID, inVillage)
	e.proximitySystem.RefreshWarmth(playerID)
}

// SetInventorySource overrides the callback the corpse system uses to
// read a player's current inventory contents at time of
// death/disconnect. NewEngine already wires this to the engine's own
// InventorySystem; tests or an alternate transport layer may override
// it.
func (e *Engine) SetInventorySource(f func(playerID string) []item.InventoryItem) {
	e.corpseSystem.SetInventorySource(f)
}

// GrantItem gives a player a new item stack, placing it in the first
// free inventory slot (falling back to the hotbar).
func (e *Engine) GrantItem(playerID, instanceID string, defID item.DefID, quantity int) (item.LocationKind, int, error) {
	return e.inventorySystem.Grant(playerID, instanceID, defID, quantity)
}

// MoveItem is the reducer entrypoint for a drag-and-drop inventory move.
func (e *Engine) MoveItem(playerID string, fromKind item.LocationKind, fromSlot int, toKind item.LocationKind, toSlot int) error {
	return e.inventorySystem.MoveItem(playerID, fromKind, fromSlot, toKind, toSlot)
}

// ConsumeItem is the reducer entrypoint for eating/drinking/using a
// carried item.
func (e *Engine) ConsumeItem(playerID, instanceID string) (item.DefID, error) {
	return e.inventorySystem.ConsumeItem(playerID, instanceID)
}

// DropItem is the reducer entrypoint for discarding a carried item into
// the world.
func (e *Engine) DropItem(playerID, instanceID string, x, y float32) (item.DefID, error) {
	return e.inventorySystem.DropItem(playerID, instanceID, x, y)
}

// processEvents polls the event log for newly appended events and
// dispatches each, in order, to the owning subsystem. Polling (rather
// than a channel) mirrors the durability story: an event is only
// dispatched once it has actually been appended to the replayable log.
func (e *Engine) processEvents(ctx context.Context) {
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Event dispatch loop stopped.")
			return
		case <-poll.C:
			all := e.eventLog.Replay()
			if len(all) <= e.lastProcessedEvent {
				continue
			}
			fresh := all[e.lastProcessedEvent:]
			for _, ev := range fresh {
				e.dispatch(ev)
			}
			e.lastProcessedEvent = len(all)
		}
	}
}

// dispatch routes one event to the subsystem(s) that own its reducer.
func (e *Engine) dispatch(ev events.GameEvent) {
	switch ev.Type {
	case events.EventTypeGlobalTick:
		e.effectSystem.OnGlobalTick(ev)

	case events.EventTypeCampfireTick:
		e.campfireSystem.OnTick(ev)

	case events.EventTypeBrothPotTick:
		e.brothPotSystem.OnTick(ev)

	case events.EventTypeProjectileTick:
		e.projectileSystem.OnGlobalTick(ev)

	case events.EventTypePlayerDied:
		e.corpseSystem.OnPlayerDied(ev)

	case events.EventTypePlayerDisconnected:
		e.corpseSystem.OnPlayerDisconnected(ev)

	case events.EventTypePlayerConnected:
		e.corpseSystem.OnPlayerConnected(ev)

	case events.EventTypeMetabolismTick:
		e.metabolismSystem.OnMetabolismTick(ev)
	}
}

// runScheduledJob turns one fired ScheduledJob into the corresponding
// appended event. It runs on the Driver goroutine, but since Append only
// enqueues (processEvents is the sole state mutator) this stays safe.
func (e *Engine) runScheduledJob(job ScheduledJob, now int64) {
	switch job.Kind {
	case JobEffectTick:
		e.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypeGlobalTick, ActorID: events.SystemActorID,
			Payload: events.GlobalTickPayload{NowMicros: now},
		})

	case JobCampfireTick:
		e.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypeCampfireTick, ActorID: events.SystemActorID,
			TargetID: job.Key,
			Payload:  events.CampfireTickPayload{CampfireID: job.Key},
		})

	case JobBrothPotTick:
		e.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypeBrothPotTick, ActorID: events.SystemActorID,
			TargetID: job.Key,
			Payload:  events.BrothPotTickPayload{PotID: job.Key},
		})

	case JobFurnaceTick:
		e.furnaceSystem.Tick(job.Key, now)

	case JobRainCollectorTick:
		e.rainCollectorSystem.Tick(job.Key, now)

	case JobProjectileTick:
		e.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypeProjectileTick, ActorID: events.SystemActorID,
			Payload: events.GlobalTickPayload{NowMicros: now},
		})

	case JobCorpseDespawn:
		e.corpseSystem.Despawn(job.Key, now)

	case JobMetabolismTick:
		e.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypeMetabolismTick, ActorID: events.SystemActorID,
			Payload: events.MetabolismTickPayload{NowMicros: now},
		})
	}
}
