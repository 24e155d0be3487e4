package synth

// Generation constants.
const (
	randomFloatDivisor = 1000000
	valueStep          = 50000 // market values are rounded to this many euros
	minValue           = 250000
	maxValue           = 120000000
	spreadMin          = 0.6
	spreadRange        = 0.8
)

// Runner configuration constants.
const (
	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
	StatusOK                = 200
)

// DefaultRoles are the roles generated when none are given.
var DefaultRoles = []string{"Winger", "Playmaker", "Striker", "Anchor", "Fullback", "CentreBack"}
