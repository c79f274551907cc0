// Package engine wires the domain model to the scheduler and tick
// driver: the scheduled tick engine, the active-effect system, the
// appliance state machines, the projectile engine, and the death/corpse
// pipeline all live here as reducer-shaped functions invoked by Driver.
package engine
