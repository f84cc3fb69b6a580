package game

import "time"

// Presets offered to players. Speed is expressed in ticks per second; one cell takes
// StepsPerCell ticks.
const (
	DefaultSpeed  = "NORMAL"
	DefaultSize   = "MEDIUM"
	DefaultFruits = "ONE"
)

var SpeedPresets = map[string]int{
	"FAST":   85,
	"NORMAL": 65,
	"SLOW":   50,
}

var SizePresets = map[string][2]int{
	"BIG":    {19, 17},
	"MEDIUM": {12, 11},
	"SMALL":  {8, 8},
}

var FruitPresets = map[string]int{
	"THREE": 3,
	"TWO":   2,
	"ONE":   1,
}

// Ordered preset names, for menus.
var (
	SpeedPresetNames = []string{"SLOW", "NORMAL", "FAST"}
	SizePresetNames  = []string{"SMALL", "MEDIUM", "BIG"}
	FruitPresetNames = []string{"ONE", "TWO", "THREE"}
)

// TickDuration converts a ticks-per-second rate into the loop period.
func TickDuration(ticksPerSecond int) time.Duration {
	if ticksPerSecond <= 0 {
		ticksPerSecond = SpeedPresets[DefaultSpeed]
	}
	return time.Second / time.Duration(ticksPerSecond)
}
