package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/emberreach/server/internal/domain/effect"
	"github.com/emberreach/server/internal/domain/projectile"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
	"github.com/emberreach/server/internal/platform/metrics"
)

// ProjectileSystem owns the 75ms ballistic tick shared by every
// in-flight projectile: position integration, range/lifetime expiry,
// and ordered collision resolution against players.
type ProjectileSystem struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewProjectileSystem builds a projectile system.
func NewProjectileSystem(e *Engine, eventLog *events.EventLog, log *logger.Logger) *ProjectileSystem {
	return &ProjectileSystem{engine: e, eventLog: eventLog, logger: log}
}

// Fire spawns a new projectile and appends the firing event, after the
// shelter self-occlusion guard: a wall/door/fence within
// SelfOcclusionGuardRadiusPx of the shooter that sits on the initial
// trajectory rejects the shot outright.
func (s *ProjectileSystem) Fire(p *projectile.Projectile) error {
	if wallID, blocked := s.selfOcclusionGuard(p); blocked {
		return fmt.Errorf("Cannot fire projectile - wall too close (%s)", wallID)
	}

	s.engine.projectiles[p.ID] = p
	metrics.Get().RecordProjectileFired()
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(p.StartTimeMicros),
		Type: events.EventTypeProjectileFired, ActorID: p.OwnerID, TargetID: p.ID,
		Payload: events.ProjectileFiredPayload{ProjectileID: p.ID, OwnerID: p.OwnerID, ItemDefID: p.ItemDefID},
	})
	return nil
}

// selfOcclusionGuard reports the id of the first wall within
// SelfOcclusionGuardRadiusPx of the shooter that the initial trajectory
// would intersect, if any.
func (s *ProjectileSystem) selfOcclusionGuard(p *projectile.Projectile) (wallID string, blocked bool) {
	dir := rules.Normalize(p.Velocity)
	end := rules.Vec2{
		X: p.StartPos.X + dir.X*rules.SelfOcclusionGuardRadiusPx*2,
		Y: p.StartPos.Y + dir.Y*rules.SelfOcclusionGuardRadiusPx*2,
	}
	for id, w := range s.engine.walls {
		wallPos := rules.Vec2{X: w.X, Y: w.Y}
		if rules.DistanceSquared(p.StartPos, wallPos) > rules.SelfOcclusionGuardRadiusPx*rules.SelfOcclusionGuardRadiusPx {
			continue
		}
		if rules.LineIntersectsCircle(p.StartPos, end, wallPos, rules.WallCollisionRadiusPx) {
			return id, true
		}
	}
	return "", false
}

// OnGlobalTick advances every in-flight projectile by one 75ms step.
func (s *ProjectileSystem) OnGlobalTick(ev events.GameEvent) {
	payload, ok := ev.Payload.(events.GlobalTickPayload)
	if !ok {
		return
	}
	now := payload.NowMicros

	for id, p := range s.engine.projectiles {
		elapsedSecs := float32(now-p.StartTimeMicros) / 1e6

		weapon := projectile.WeaponCatalogue[p.ItemDefID]
		gravity := rules.GravityMultiplierForWeapon(p.ItemDefID, weapon.IsMonumentTurret)
		prevPos := rules.PositionAtT(p.StartPos, p.Velocity, gravity, elapsedSecs-rules.ProjectileTickIntervalSecs)
		pos := rules.PositionAtT(p.StartPos, p.Velocity, gravity, elapsedSecs)

		if elapsedSecs > rules.ProjectileMaxLifetimeSecs || rules.TravelDistance(p.StartPos, pos) > p.MaxRange {
			s.resolveImpact(id, p, pos, "", "miss")
			continue
		}

		var (
			obstKind, obstID string
			obstHitPos       rules.Vec2
			obstHit          bool
		)
		if p.SourceType != projectile.SourceMonumentTurret {
			// Monument-turret projectiles pass through structures.
			obstKind, obstID, obstHitPos, obstHit = s.firstStaticObstacleHit(p, prevPos, pos)
		}
		targetID, playerHitPos, playerHit := s.firstPlayerHit(p, prevPos, pos, now)

		switch {
		case obstHit && (!playerHit || rules.DistanceSquared(prevPos, obstHitPos) <= rules.DistanceSquared(prevPos, playerHitPos)):
			s.damageObstacle(obstKind, obstID, p, now, obstHitPos)
			s.resolveImpact(id, p, obstHitPos, obstID, "static")
		case playerHit:
			s.damagePlayer(targetID, p, now)
			s.resolveImpact(id, p, playerHitPos, targetID, "player")
		}
	}
}

// firstStaticObstacleHit scans every undestroyed wall, campfire, broth
// pot, furnace, rain collector, and player corpse for a segment/circle
// collision between the previous and current tick position, returning
// whichever obstacle the segment reaches first. Monument turrets skip
// this entirely (the caller never invokes it for that source type, per
// the structure skip-list). Doors, fences, shelters, trees, stones, and
// the other world-decoration obstacles the specification also lists
// collapse into the same Wall row (see world.Wall's doc comment) or are
// not yet modeled; storage boxes, stashes, sleeping bags, and barrels
// are likewise not modeled by this engine.
func (s *ProjectileSystem) firstStaticObstacleHit(p *projectile.Projectile, from, to rules.Vec2) (kind, obstacleID string, hitPos rules.Vec2, ok bool) {
	type candidate struct {
		kind, id string
		pos      rules.Vec2
	}
	var best *candidate
	consider := func(k, id string, x, y, radius float32) {
		point, hit := rules.LineCircleFirstImpactPoint(from, to, rules.Vec2{X: x, Y: y}, radius)
		if !hit {
			return
		}
		if best == nil || rules.DistanceSquared(from, point) < rules.DistanceSquared(from, best.pos) {
			best = &candidate{kind: k, id: id, pos: point}
		}
	}

	for id, w := range s.engine.walls {
		if w.IsDestroyed() {
			continue
		}
		consider("wall", id, w.X, w.Y, rules.WallCollisionRadiusPx)
	}
	for id, c := range s.engine.campfires {
		if c.IsDestroyed {
			continue
		}
		consider("campfire", id, c.X, c.Y, rules.ApplianceCollisionRadiusPx)
	}
	for id, bp := range s.engine.brothPots {
		if bp.IsDestroyed {
			continue
		}
		consider("brothpot", id, bp.X, bp.Y, rules.ApplianceCollisionRadiusPx)
	}
	for id, f := range s.engine.furnaces {
		if f.IsDestroyed {
			continue
		}
		consider("furnace", id, f.X, f.Y, rules.ApplianceCollisionRadiusPx)
	}
	for id, r := range s.engine.rainCollectors {
		if r.IsDestroyed {
			continue
		}
		consider("raincollector", id, r.X, r.Y, rules.ApplianceCollisionRadiusPx)
	}
	for id, c := range s.engine.corpses {
		consider("corpse", id, c.X, c.Y, rules.CorpseCollisionRadiusPx)
	}

	if best == nil {
		return "", "", rules.Vec2{}, false
	}
	return best.kind, best.id, best.pos, true
}

// damageObstacle applies weapon_damage + ammo_damage to whichever
// static obstacle table kind resolves to (the ammo's own
// consumption-on-impact outcome is resolved by resolveImpact
// afterwards). Walls keep their dedicated event pair
// (WallDamaged/WallDestroyed); every other obstacle kind shares the
// generic ObstacleDamaged/ObstacleDestroyed pair.
func (s *ProjectileSystem) damageObstacle(kind, obstacleID string, p *projectile.Projectile, now int64, hitPos rules.Vec2) {
	weapon := projectile.WeaponCatalogue[p.ItemDefID]
	ammo := projectile.AmmoCatalogue[p.AmmoDefID]
	amount := (weapon.PvPDamageMin+weapon.PvPDamageMax)/2 + ammo.AmmoDamage

	var destroyed bool
	switch kind {
	case "wall":
		w, ok := s.engine.walls[obstacleID]
		if !ok {
			return
		}
		w.Health -= amount
		s.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypeWallDamaged, ActorID: p.OwnerID, TargetID: obstacleID,
			Payload: events.WallDamagedPayload{WallID: obstacleID, Amount: amount},
		})
		if w.IsDestroyed() {
			destroyed = true
			s.eventLog.Append(events.GameEvent{
				ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
				Type: events.EventTypeWallDestroyed, ActorID: p.OwnerID, TargetID: obstacleID,
				Payload: events.WallDestroyedPayload{WallID: obstacleID},
			})
		}
		return
	case "campfire":
		c, ok := s.engine.campfires[obstacleID]
		if !ok {
			return
		}
		c.Health -= amount
		destroyed = c.Health <= 0
		c.IsDestroyed = destroyed
	case "brothpot":
		bp, ok := s.engine.brothPots[obstacleID]
		if !ok {
			return
		}
		bp.Health -= amount
		destroyed = bp.Health <= 0
		bp.IsDestroyed = destroyed
	case "furnace":
		f, ok := s.engine.furnaces[obstacleID]
		if !ok {
			return
		}
		f.Health -= amount
		destroyed = f.Health <= 0
		f.IsDestroyed = destroyed
	case "raincollector":
		r, ok := s.engine.rainCollectors[obstacleID]
		if !ok {
			return
		}
		r.Health -= amount
		destroyed = r.Health <= 0
		r.IsDestroyed = destroyed
	case "corpse":
		c, ok := s.engine.corpses[obstacleID]
		if !ok {
			return
		}
		c.Health -= amount
		// PlayerCorpse carries no destroyed state; it simply absorbs
		// damage until its natural despawn/restore removes it.
	default:
		return
	}

	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
		Type: events.EventTypeObstacleDamaged, ActorID: p.OwnerID, TargetID: obstacleID,
		Payload: events.ObstacleDamagedPayload{Kind: kind, ObstacleID: obstacleID, Amount: amount},
	})
	if destroyed {
		s.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypeObstacleDestroyed, ActorID: p.OwnerID, TargetID: obstacleID,
			Payload: events.ObstacleDestroyedPayload{Kind: kind, ObstacleID: obstacleID},
		})
	}
}

// resolveAmmoConsumption is the "consume_projectile_on_impact" helper,
// run for every consumed projectile (hit or miss): turret and NPC
// projectiles never drop (they explode or dissipate); a Grenade drops
// with a live fuse payload; a Flare drops with an expiry payload;
// everything else breaks at its configured chance (bullets always),
// emitting the arrow-break particle event, or drops a single ammo item
// at the impact point.
func (s *ProjectileSystem) resolveAmmoConsumption(p *projectile.Projectile, now int64, hitPos rules.Vec2) {
	switch p.SourceType {
	case projectile.SourceTurret, projectile.SourceMonumentTurret, projectile.SourceNPC:
		return
	}

	switch p.AmmoDefID {
	case "Grenade":
		fuseSecs := rules.GrenadeFuseMinSecs + rand.Float32()*(rules.GrenadeFuseMaxSecs-rules.GrenadeFuseMinSecs)
		detonatesAt := now + int64(fuseSecs*1e6)
		itemData := fmt.Sprintf(
			`{"fuse_started_at":%d,"fuse_duration_secs":%.2f,"fuse_detonates_at":%d,"fuse_thrower":%q}`,
			now, fuseSecs, detonatesAt, p.OwnerID)
		s.appendAmmoDrop(p, now, hitPos, itemData)
		return
	case "Flare":
		itemData := fmt.Sprintf(
			`{"flare_started_at":%d,"flare_duration_secs":%d,"flare_expires_at":%d}`,
			now, int(rules.FlareBurnSecs), now+int64(rules.FlareBurnSecs*1e6))
		s.appendAmmoDrop(p, now, hitPos, itemData)
		return
	}

	ammo := projectile.AmmoCatalogue[p.AmmoDefID]
	if rand.Float32() < ammo.BreaksOnImpactChance {
		s.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypeArrowBroke, ActorID: p.OwnerID, TargetID: p.ID,
			Payload: events.ArrowBrokePayload{ProjectileID: p.ID, AmmoDefID: p.AmmoDefID, X: hitPos.X, Y: hitPos.Y},
		})
		return
	}
	s.appendAmmoDrop(p, now, hitPos, "")
}

func (s *ProjectileSystem) appendAmmoDrop(p *projectile.Projectile, now int64, hitPos rules.Vec2, itemData string) {
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
		Type: events.EventTypeAmmoDropped, ActorID: p.OwnerID, TargetID: p.ID,
		Payload: events.AmmoDroppedPayload{ProjectileID: p.ID, AmmoDefID: p.AmmoDefID, X: hitPos.X, Y: hitPos.Y, ItemData: itemData},
	})
}

// maybeSpawnFirePatch covers the two fire-patch sources: a fire arrow
// resolving as a miss always scorches the ground where it lands, and a
// player turret's Tallow round leaves one at its impact point 25% of
// the time.
func (s *ProjectileSystem) maybeSpawnFirePatch(p *projectile.Projectile, now int64, pos rules.Vec2, kind string) {
	ammo := projectile.AmmoCatalogue[p.AmmoDefID]
	spawn := false
	switch {
	case ammo.IsFireAmmo && kind == "miss":
		spawn = true
	case p.SourceType == projectile.SourceTurret && p.AmmoDefID == "Tallow" && kind != "miss":
		spawn = rand.Float32() < rules.TallowFirePatchChance
	}
	if !spawn {
		return
	}
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
		Type: events.EventTypeFirePatchCreated, ActorID: p.OwnerID, TargetID: p.ID,
		Payload: events.FirePatchCreatedPayload{ProjectileID: p.ID, X: pos.X, Y: pos.Y},
	})
}

// firstPlayerHit scans every living player (except the projectile's own
// owner, and excluding the owner within TurretSelfExcludeRadiusPx for
// turret-sourced projectiles) for a segment/circle collision between
// the previous and current tick position. Monument-turret projectiles
// pass straight through players whose PvP is inactive — re-checked here
// at impact time, not at fire time.
func (s *ProjectileSystem) firstPlayerHit(p *projectile.Projectile, from, to rules.Vec2, now int64) (targetID string, hitPos rules.Vec2, ok bool) {
	radius := rules.PlayerProjectileCollisionRadiusPx
	if p.SourceType == projectile.SourceNPC {
		radius = rules.NPCProjectileCollisionRadiusPx
	}

	for id, target := range s.engine.GetPlayers() {
		if !target.IsLiving() {
			continue
		}
		if p.SourceType == projectile.SourceMonumentTurret && !target.IsPvPActive(now) {
			continue
		}
		if id == p.OwnerID {
			if p.SourceType != projectile.SourceTurret && p.SourceType != projectile.SourceMonumentTurret {
				continue
			}
			c := rules.Vec2{X: target.X, Y: target.Y}
			if rules.DistanceSquared(p.StartPos, c) < rules.TurretSelfExcludeRadiusPx*rules.TurretSelfExcludeRadiusPx {
				continue
			}
		}
		c := rules.Vec2{X: target.X, Y: target.Y}
		if point, hit := rules.LineCircleFirstImpactPoint(from, to, c, radius); hit {
			return id, point, true
		}
	}
	return "", rules.Vec2{}, false
}

// applySecondaryAmmoEffects applies the additional status effects a
// successful player hit configures on top of its direct health damage:
// bleed (unless the ammo is configured for fire or venom instead),
// burn (fire ammo only, blocked by an active Wet flag), venom (venom
// arrow/harpoon dart), and stun (blunt thrown weapons).
func (s *ProjectileSystem) applySecondaryAmmoEffects(targetID string, ammo projectile.AmmoStats, now int64) {
	es := s.engine.effectSystem
	if ammo.BleedAmount > 0 && !ammo.IsFireAmmo && !ammo.IsVenomAmmo {
		es.ApplyEffect(newProjectileBleed(targetID, ammo.BleedAmount, ammo.BleedDurationSecs, now))
	}
	if ammo.IsFireAmmo && !es.hasBuff(targetID, effect.Wet) {
		es.ApplyEffect(newProjectileBurn(targetID, now))
	}
	if ammo.IsVenomAmmo {
		es.ApplyEffect(newProjectileVenom(targetID, now))
	}
	if ammo.IsThrownWeapon {
		es.ApplyEffect(newThrownWeaponStun(targetID, now))
	}
}

func (s *ProjectileSystem) damagePlayer(targetID string, p *projectile.Projectile, now int64) {
	target := s.engine.GetPlayer(targetID)
	if target == nil {
		return
	}
	if s.engine.IsInSafeZone(target.X, target.Y) {
		// Safe-zone target: the projectile is consumed with no damage.
		return
	}
	var amount float32
	ammo := projectile.AmmoCatalogue[p.AmmoDefID]
	weapon := projectile.WeaponCatalogue[p.ItemDefID]
	switch p.SourceType {
	case projectile.SourceNPC:
		amount = projectile.NPCProjectileStats[p.NPCProjectileType].Damage
	case projectile.SourceMonumentTurret:
		amount = weapon.PvPDamageMax
	default:
		weaponRoll := weapon.PvPDamageMin + rand.Float32()*(weapon.PvPDamageMax-weapon.PvPDamageMin)
		switch {
		case ammo.IsThrownWeapon:
			amount = 2 * weaponRoll
		case ammo.IsHollowReed:
			amount = weaponRoll - ammo.AmmoDamage
			if amount < 1 {
				amount = 1
			}
		case ammo.IsFireAmmo:
			amount = ammo.AmmoDamage
		default:
			amount = weaponRoll + ammo.AmmoDamage
		}
	}
	target.ApplyDamage(amount, now, true)
	s.engine.effectSystem.cancelBandageOnDamage(targetID)
	switch p.SourceType {
	case projectile.SourceNPC:
		if p.NPCProjectileType == projectile.NPCViperVenomSpittle {
			s.engine.effectSystem.ApplyEffect(newNPCVenom(targetID, now))
		}
	default:
		s.applySecondaryAmmoEffects(targetID, ammo, now)
	}
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
		Type: events.EventTypePlayerDamaged, ActorID: p.OwnerID, TargetID: targetID,
		Payload: events.PlayerDamagedPayload{PlayerID: targetID, Amount: amount, Source: p.ItemDefID},
	})
	if target.IsDead {
		s.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypePlayerDied, ActorID: events.SystemActorID, TargetID: targetID,
			Payload: events.PlayerDiedPayload{PlayerID: targetID, X: target.X, Y: target.Y},
		})
	}
}

func (s *ProjectileSystem) resolveImpact(id string, p *projectile.Projectile, pos rules.Vec2, targetID, kind string) {
	delete(s.engine.projectiles, id)
	now := time.Now().UnixMicro()
	s.maybeSpawnFirePatch(p, now, pos, kind)
	s.resolveAmmoConsumption(p, now, pos)
	metrics.Get().RecordProjectileImpact()
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
		Type: events.EventTypeProjectileImpact, ActorID: p.OwnerID, TargetID: id,
		Payload: events.ProjectileImpactPayload{ProjectileID: id, TargetKind: kind, TargetID: targetID, X: pos.X, Y: pos.Y},
	})
}
