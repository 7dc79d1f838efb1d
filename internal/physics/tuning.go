package physics

import "time"

const (
	PlatformRadius = 300.0
	BodyRadius     = 20.0
	BodyMass       = 5.0
	Restitution    = 0.8  // bounciness on body-body contact
	Friction       = 0.05 // surface friction on contact
	AirFriction    = 0.02 // velocity damping per base frame

	// MaxImpulse is the impulse applied by a full power (100) push.
	// A full push changes a body's velocity by MaxImpulse/BodyMass px/s.
	MaxImpulse = 1650.0

	TickRate = 30
	TickDT   = 1.0 / TickRate

	// PlacementFactor places bodies on a ring at this fraction of the platform radius.
	PlacementFactor = 0.5

	// baseDelta is the frame length AirFriction is expressed against.
	baseDelta = 1.0 / 60
)

// TickInterval is the wall clock interval between simulation steps.
const TickInterval = time.Second / TickRate
