package engine

import (
	"testing"
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

func newTestEngine() *Engine {
	return NewEngine(events.NewEventLog(nil), logger.NewLogger(), weather.NewStaticProvider())
}

// S1 — Bandage interrupt: a bandage burst in progress is cancelled, with
// no heal applied, the instant its target takes externally-sourced damage.
func TestBandageInterrupt(t *testing.T) {
	e := newTestEngine()

	a := player.NewPlayer("A", "A", 0, 0)
	b := player.NewPlayer("B", "B", 0, 0)
	e.RegisterPlayer(a)
	e.RegisterPlayer(b)

	start := time.Now().UnixMicro()
	eff := &effect.ActiveConsumableEffect{
		EffectID: "bandage-1", PlayerID: "A", Type: effect.BandageBurst,
		StartedAt: start, EndsAt: start + 5_000_000,
		TotalAmount: 30, TickIntervalMicros: 1_000_000, NextTickAt: start + 1_000_000,
	}
	e.effectSystem.ApplyEffect(eff)

	// Act: at t=3s, B deals 5 damage to A.
	e.DamagePlayer("A", "B", 5)

	if _, stillActive := e.effects["bandage-1"]; stillActive {
		t.Fatalf("expected bandage-1 effect row to be deleted on interruption")
	}
	if a.Health != 95 {
		t.Errorf("expected A's health to reflect only the 5 damage, got %v", a.Health)
	}

	// Advance past the bandage's original end time; since the row is
	// already gone, no lump heal should ever land.
	e.effectSystem.OnGlobalTick(events.GameEvent{Payload: events.GlobalTickPayload{NowMicros: start + 6_000_000}})
	if a.Health != 95 {
		t.Errorf("expected no heal after interruption, got health %v", a.Health)
	}
}

// S2 — Campfire relight in storm: lighting is rejected in heavy storm
// without shelter or tree cover, and succeeds once a tree is in range.
func TestCampfireRelightInStorm(t *testing.T) {
	e := newTestEngine()
	wp := weather.NewStaticProvider()
	e.campfireSystem.weather = wp

	const chunkID = uint32(1)
	wp.Set(chunkID, weather.HeavyStorm)

	c := &appliance.Campfire{ID: "camp-1", ChunkID: chunkID}
	c.SlotInstanceIDs[0] = "wood-stack"
	c.SlotDefIDs[0] = item.Wood
	e.RegisterCampfire(c)

	err := e.LightCampfire("camp-1")
	if err == nil || err.Error() != "Cannot light campfire in heavy rain unless it's inside a shelter or near a tree." {
		t.Fatalf("expected heavy-rain rejection, got %v", err)
	}
	if c.IsBurning {
		t.Fatalf("campfire should not be burning after rejection")
	}

	// Act: a tree moves within CampfireRelightTreeRadiusPx.
	e.RegisterTree(&world.Tree{ID: "tree-1", ChunkID: chunkID, X: c.X, Y: c.Y})
	if err := e.LightCampfire("camp-1"); err != nil {
		t.Fatalf("expected lighting to succeed with tree cover, got %v", err)
	}
	if !c.IsBurning {
		t.Fatalf("expected campfire to be burning")
	}
	if !e.scheduler.Has(JobCampfireTick, c.ID) {
		t.Errorf("expected a campfire tick schedule row after lighting")
	}
}

// S3 — Broth desalination: 40 seconds of ticks converts 1000ml of
// seawater into fresh water, transferring it into the attached bottle.
func TestBrothPotDesalination(t *testing.T) {
	e := newTestEngine()

	c := &appliance.Campfire{ID: "camp-1", IsBurning: true}
	e.RegisterCampfire(c)

	p := &appliance.BrothPot{
		ID: "pot-1", AttachedCampfireID: "camp-1",
		WaterLevelMl: 2000, IsSeawater: true,
		WaterContainerInstanceID: "bottle-1", WaterContainerDefID: item.ReedWaterBottle,
		WaterContainerCapacityMl: 2000,
	}
	c.AttachedBrothPotID = p.ID
	e.RegisterBrothPot(p)

	for i := 0; i < 40; i++ {
		e.brothPotSystem.desalinate(p, 1.0)
	}

	if p.WaterLevelMl != 1000 {
		t.Errorf("expected pot water level 1000ml, got %d", p.WaterLevelMl)
	}
	if p.WaterContainerWaterMl != 1000 {
		t.Errorf("expected bottle to hold 1000ml (1.0L), got %d", p.WaterContainerWaterMl)
	}
	if p.WaterContainerIsSeawater {
		t.Errorf("expected bottle water to be fresh")
	}
}

// S4 — Death despawn sizing: the corpse's despawn timer is sized from
// the longest respawn_time_seconds among the dropped items.
func TestDeathDespawnSizing(t *testing.T) {
	e := newTestEngine()
	p := player.NewPlayer("dead-1", "Dead", 10, 20)
	e.RegisterPlayer(p)

	e.SetInventorySource(func(playerID string) []item.InventoryItem {
		return []item.InventoryItem{
			{InstanceID: "i1", DefID: item.Stone, Quantity: 50, Location: item.InInventory(playerID, 0)},
			{InstanceID: "i2", DefID: item.Pinecone, Quantity: 4, Location: item.InInventory(playerID, 1)},
			{InstanceID: "i3", DefID: item.Wood, Quantity: 20, Location: item.InInventory(playerID, 2)},
		}
	})

	deathTime := time.Now()
	e.corpseSystem.OnPlayerDied(events.GameEvent{
		Timestamp: deathTime,
		Payload:   events.PlayerDiedPayload{PlayerID: p.ID, X: p.X, Y: p.Y},
	})

	var found *corpse.PlayerCorpse
	for _, c := range e.corpses {
		if c.PlayerIdentity == p.ID {
			found = c
		}
	}
	if found == nil {
		t.Fatalf("expected a corpse to be created")
	}
	wantDespawn := deathTime.UnixMicro() + 900*1_000_000
	if found.DespawnScheduledAt != wantDespawn {
		t.Errorf("expected despawn_scheduled_at = death_time + 900s, got delta %d micros",
			found.DespawnScheduledAt-deathTime.UnixMicro())
	}

	// Empty-inventory case falls back to the default 300s.
	e2 := newTestEngine()
	p2 := player.NewPlayer("dead-2", "Dead2", 0, 0)
	e2.RegisterPlayer(p2)
	death2 := time.Now()
	e2.corpseSystem.OnPlayerDied(events.GameEvent{
		Timestamp: death2,
		Payload:   events.PlayerDiedPayload{PlayerID: p2.ID, X: 0, Y: 0},
	})
	var found2 *corpse.PlayerCorpse
	for _, c := range e2.corpses {
		if c.PlayerIdentity == p2.ID {
			found2 = c
		}
	}
	if found2 == nil {
		t.Fatalf("expected a corpse to be created for the empty-inventory case")
	}
	if found2.DespawnScheduledAt != death2.UnixMicro()+int64(rules.DefaultCorpseDespawnSecs)*1_000_000 {
		t.Errorf("expected default despawn window for empty inventory")
	}
}

// S5 — Offline relog: a disconnecting player's carried items land on a
// position-preserving offline corpse and are fully restored on reconnect.
func TestOfflineRelog(t *testing.T) {
	e := newTestEngine()
	p := player.NewPlayer("sleeper", "Sleeper", 5, 5)
	p.IsSnorkeling = true
	p.Equipment.ChestItemInstanceID = "chest-armor-1"
	e.RegisterPlayer(p)

	e.SetInventorySource(func(playerID string) []item.InventoryItem {
		return []item.InventoryItem{
			{InstanceID: "bow-1", DefID: item.DefID("HUNTING_BOW"), Quantity: 1, Location: item.InHotbar(playerID, 2)},
			{InstanceID: "stone-1", DefID: item.Stone, Quantity: 37, Location: item.InInventory(playerID, 5)},
			{InstanceID: "chest-armor-1", DefID: item.Stone, Quantity: 1, Location: item.EquippedAt(playerID, "Chest")},
		}
	})

	e.corpseSystem.OnPlayerDisconnected(events.GameEvent{Timestamp: time.Now(), TargetID: p.ID})

	c, ok := e.corpses["offline-"+p.ID]
	if !ok || !c.IsOffline {
		t.Fatalf("expected an offline corpse row")
	}
	if p.Equipment.ChestItemInstanceID != "" {
		t.Errorf("expected ActiveEquipment to be cleared on disconnect")
	}
	if p.IsOnline {
		t.Errorf("expected player marked offline")
	}

	restored := map[string]item.RestoreRequest{}
	e.corpseSystem.SetInventoryRestorer(func(playerID string, reqs []item.RestoreRequest) []string {
		for _, r := range reqs {
			restored[r.InstanceID] = r
		}
		return nil
	})

	e.corpseSystem.OnPlayerConnected(events.GameEvent{Timestamp: time.Now(), TargetID: p.ID})

	if _, stillThere := e.corpses["offline-"+p.ID]; stillThere {
		t.Errorf("expected the offline corpse to be deleted on reconnect")
	}
	bow, ok := restored["bow-1"]
	if !ok || bow.PreferKind != item.LocationHotbar || bow.PreferSlot != 2 {
		t.Errorf("expected the bow restored to hotbar[2], got %+v", bow)
	}
	stone, ok := restored["stone-1"]
	if !ok || stone.PreferKind != item.LocationInventory || stone.PreferSlot != 5 {
		t.Errorf("expected the stone stack restored to inventory[5], got %+v", stone)
	}
	if stone.Quantity != 37 {
		t.Errorf("expected the stack quantity preserved across the corpse, got %d", stone.Quantity)
	}
	if p.Equipment.ChestItemInstanceID != "chest-armor-1" {
		t.Errorf("expected chest armor restored to ActiveEquipment, got %q", p.Equipment.ChestItemInstanceID)
	}
	if !p.IsOnline {
		t.Errorf("expected player marked online again")
	}
}

// S6 — Projectile occlusion: a wall too close to the shooter blocks
// firing outright; once clear, the shot travels to impact and resolves
// wall damage plus ammo consumption.
func TestProjectileOcclusion(t *testing.T) {
	e := newTestEngine()

	shooter := player.NewPlayer("shooter", "Shooter", 0, 0)
	target := player.NewPlayer("target", "Target", 1000, 0)
	e.RegisterPlayer(shooter)
	e.RegisterPlayer(target)

	w := &world.Wall{ID: "wall-1", X: 40, Y: 0, Health: 100, MaxHealth: 100}
	e.RegisterWall(w)

	shot := &projectile.Projectile{
		ID: "shot-1", OwnerID: "shooter", ItemDefID: "HuntingBow", AmmoDefID: "WoodenArrow",
		SourceType: projectile.SourcePlayer, StartTimeMicros: time.Now().UnixMicro(),
		StartPos: rules.Vec2{X: 0, Y: 0}, Velocity: rules.Vec2{X: 900, Y: 0}, MaxRange: 1500,
	}
	if err := e.FireProjectile(shot); err == nil {
		t.Fatalf("expected firing to be rejected by the self-occlusion guard")
	}

	// Act: move the wall out of guard range and fire again.
	w.X = 200
	shot2 := &projectile.Projectile{
		ID: "shot-2", OwnerID: "shooter", ItemDefID: "HuntingBow", AmmoDefID: "WoodenArrow",
		SourceType: projectile.SourcePlayer, StartTimeMicros: time.Now().UnixMicro(),
		StartPos: rules.Vec2{X: 0, Y: 0}, Velocity: rules.Vec2{X: 900, Y: 0}, MaxRange: 1500,
	}
	if err := e.FireProjectile(shot2); err != nil {
		t.Fatalf("expected firing to succeed once the wall is clear, got %v", err)
	}

	now := shot2.StartTimeMicros
	for i := 0; i < 4; i++ {
		now += int64(rules.ProjectileTickIntervalSecs * 1e6)
		e.projectileSystem.OnGlobalTick(events.GameEvent{Payload: events.GlobalTickPayload{NowMicros: now}})
	}

	if _, stillFlying := e.projectiles["shot-2"]; stillFlying {
		t.Errorf("expected the projectile row to be deleted after wall impact")
	}
	weapon := projectile.WeaponCatalogue["HuntingBow"]
	ammo := projectile.AmmoCatalogue["WoodenArrow"]
	wantDamage := (weapon.PvPDamageMin+weapon.PvPDamageMax)/2 + ammo.AmmoDamage
	if w.Health != 100-wantDamage {
		t.Errorf("expected wall health reduced by weapon_damage + ammo_damage (%v), got %v", wantDamage, w.Health)
	}
}

// Reconnecting with a slot already occupied falls back to the first
// free slot instead of overwriting what the player picked up offline.
func TestCorpseRestoreSlotConflict(t *testing.T) {
	e := newTestEngine()
	is := e.inventorySystem

	pi := is.of("p1")
	pi.inventory.SetSlot(0, "picked-up", item.Stone)

	lost := is.Restore("p1", []item.RestoreRequest{
		{InstanceID: "recovered", DefID: item.Wood, Quantity: 5, PreferKind: item.LocationInventory, PreferSlot: 0},
	})
	if len(lost) != 0 {
		t.Fatalf("expected the recovered item to land somewhere, got lost=%v", lost)
	}
	if pi.inventory.SlotInstanceID(0) != "picked-up" {
		t.Errorf("expected slot 0 to keep the picked-up item, got %q", pi.inventory.SlotInstanceID(0))
	}
	found := false
	for i := 1; i < pi.inventory.NumSlots(); i++ {
		if pi.inventory.SlotInstanceID(i) == "recovered" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the recovered item to land in the first free slot instead")
	}
}

// Two PlayerDied events for the same player a few microseconds apart
// (a retried reducer) spawn only one corpse.
func TestCorpseDeathDedupe(t *testing.T) {
	e := newTestEngine()
	p := player.NewPlayer("dead-3", "Dead3", 100, 100)
	e.RegisterPlayer(p)

	deathTime := time.Now()
	e.corpseSystem.OnPlayerDied(events.GameEvent{
		Timestamp: deathTime,
		Payload:   events.PlayerDiedPayload{PlayerID: p.ID, X: 100, Y: 100},
	})
	e.corpseSystem.OnPlayerDied(events.GameEvent{
		Timestamp: deathTime.Add(500 * time.Microsecond),
		Payload:   events.PlayerDiedPayload{PlayerID: p.ID, X: 101, Y: 100},
	})

	count := 0
	for _, c := range e.corpses {
		if c.PlayerIdentity == p.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one corpse for the retried death, got %d", count)
	}
}

// A campfire inside a safe zone only allows one active user at a time;
// outside one, opening always succeeds.
func TestCampfireAccessExclusivity(t *testing.T) {
	e := newTestEngine()
	a := player.NewPlayer("A", "A", 0, 0)
	b := player.NewPlayer("B", "B", 0, 0)
	e.RegisterPlayer(a)
	e.RegisterPlayer(b)

	c := &appliance.Campfire{ID: "camp-1"}
	e.RegisterCampfire(c)
	e.RegisterSafeZone(&world.SafeZone{ID: "zone-1", X: 0, Y: 0, RadiusPx: 500})

	now := time.Now().UnixMicro()
	if err := e.OpenCampfire("camp-1", "A"); err != nil {
		t.Fatalf("expected A to open the campfire, got %v", err)
	}
	if err := e.OpenCampfire("camp-1", "B"); err == nil {
		t.Fatalf("expected B to be rejected while A holds access inside the safe zone")
	}

	e.CloseCampfire("camp-1", "A")
	if err := e.OpenCampfire("camp-1", "B"); err != nil {
		t.Fatalf("expected B to open the campfire once A released it, got %v", err)
	}
	_ = now
}

// A stale ActiveUserID (holder moved far away) is garbage-collected by
// the campfire's own tick rather than blocking access forever.
func TestCampfireAccessStaleRelease(t *testing.T) {
	e := newTestEngine()
	a := player.NewPlayer("A", "A", 0, 0)
	e.RegisterPlayer(a)

	c := &appliance.Campfire{ID: "camp-1"}
	e.RegisterCampfire(c)

	if err := e.OpenCampfire("camp-1", "A"); err != nil {
		t.Fatalf("expected A to open the campfire, got %v", err)
	}

	a.X, a.Y = 10_000, 10_000
	e.campfireSystem.OnTick(events.GameEvent{TargetID: "camp-1"})

	if c.ActiveUserID != "" {
		t.Errorf("expected stale access to be released once A drifted out of range, got %q", c.ActiveUserID)
	}
}

// A shot that hits a campfire standing in its path damages the
// campfire, not any player standing behind it.
func TestProjectileHitsApplianceObstacle(t *testing.T) {
	e := newTestEngine()
	shooter := player.NewPlayer("shooter", "Shooter", 0, 0)
	behind := player.NewPlayer("behind", "Behind", 1000, 0)
	e.RegisterPlayer(shooter)
	e.RegisterPlayer(behind)

	c := &appliance.Campfire{ID: "camp-1", X: 200, Y: 0, Health: 100, MaxHealth: 100}
	e.RegisterCampfire(c)

	shot := &projectile.Projectile{
		ID: "shot-obst", OwnerID: "shooter", ItemDefID: "HuntingBow", AmmoDefID: "WoodenArrow",
		SourceType: projectile.SourcePlayer, StartTimeMicros: time.Now().UnixMicro(),
		StartPos: rules.Vec2{X: 0, Y: 0}, Velocity: rules.Vec2{X: 900, Y: 0}, MaxRange: 1500,
	}
	if err := e.FireProjectile(shot); err != nil {
		t.Fatalf("expected firing to succeed, got %v", err)
	}

	now := shot.StartTimeMicros
	for i := 0; i < 4; i++ {
		now += int64(rules.ProjectileTickIntervalSecs * 1e6)
		e.projectileSystem.OnGlobalTick(events.GameEvent{Payload: events.GlobalTickPayload{NowMicros: now}})
	}

	if c.Health >= 100 {
		t.Errorf("expected the campfire to absorb the hit, health still %v", c.Health)
	}
	if behind.Health != 100 {
		t.Errorf("expected the player standing behind the campfire to take no damage, got %v", behind.Health)
	}
}

// A successful Wooden Arrow hit applies its configured bleed on top of
// the direct health damage; a Fire Arrow hit applies Burn instead,
// unless the target is Wet.
func TestProjectileSecondaryEffects(t *testing.T) {
	e := newTestEngine()
	target := player.NewPlayer("target", "Target", 0, 0)
	e.RegisterPlayer(target)
	now := time.Now().UnixMicro()

	woodenArrow := &projectile.Projectile{ID: "p1", OwnerID: "shooter", ItemDefID: "HuntingBow", AmmoDefID: "WoodenArrow", SourceType: projectile.SourcePlayer}
	e.projectileSystem.damagePlayer("target", woodenArrow, now)

	foundBleed := false
	for _, eff := range e.effects {
		if eff.PlayerID == "target" && eff.Type == effect.Bleed {
			foundBleed = true
		}
	}
	if !foundBleed {
		t.Errorf("expected a Bleed row from the Wooden Arrow's configured bleed")
	}

	fireArrow := &projectile.Projectile{ID: "p2", OwnerID: "shooter", ItemDefID: "HuntingBow", AmmoDefID: "FireArrow", SourceType: projectile.SourcePlayer}
	e.projectileSystem.damagePlayer("target", fireArrow, now)

	foundBurn := false
	for _, eff := range e.effects {
		if eff.PlayerID == "target" && eff.Type == effect.Burn {
			foundBurn = true
		}
	}
	if !foundBurn {
		t.Errorf("expected a Burn row from the Fire Arrow hit")
	}
}

// A Fire Arrow striking a Wet player still deals damage but does not
// apply Burn.
func TestProjectileFireArrowBlockedByWet(t *testing.T) {
	e := newTestEngine()
	target := player.NewPlayer("target", "Target", 0, 0)
	e.RegisterPlayer(target)
	now := time.Now().UnixMicro()

	e.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
		EffectID: "wet-1", PlayerID: "target", Type: effect.Wet,
		StartedAt: now, EndsAt: now + 1_000_000,
	})

	fireArrow := &projectile.Projectile{ID: "p3", OwnerID: "shooter", ItemDefID: "HuntingBow", AmmoDefID: "FireArrow", SourceType: projectile.SourcePlayer}
	healthBefore := target.Health
	e.projectileSystem.damagePlayer("target", fireArrow, now)

	if target.Health >= healthBefore {
		t.Errorf("expected the fire arrow to still deal damage, got health %v (was %v)", target.Health, healthBefore)
	}
	for _, eff := range e.effects {
		if eff.PlayerID == "target" && eff.Type == effect.Burn {
			t.Errorf("expected no Burn row on a Wet target")
		}
	}
}
