package services

import (
	"strings"

	"homeguard/models"
)

// Static troubleshooting checklists used when the oracle cannot generate a
// suggestion. Indexed by attempt so a retry never repeats the previous step.
var fallbackSteps = map[models.Category][]string{
	models.CategoryAC: {
		"Can you check that the AC unit is switched on at the thermostat and set to \"cool\"? Also verify the remote has working batteries.",
		"Please check whether the AC's air filter looks clogged with dust, and that nothing is blocking the vents.",
	},
	models.CategoryHeater: {
		"Can you verify the thermostat is set to \"heat\" and a few degrees above the current room temperature?",
		"Please check whether the heater's pilot light or power indicator is on, and that the circuit breaker hasn't tripped.",
	},
	models.CategoryLights: {
		"Can you try the light switch a couple of times and check whether the bulb is screwed in firmly?",
		"Please check the breaker panel for a tripped switch, and try a lamp in the same outlet if there is one.",
	},
	models.CategoryPlumbing: {
		"Can you check whether the shut-off valve under the fixture is fully open, and whether water appears anywhere else?",
		"Please verify whether the issue happens with both hot and cold water, and whether the drain is visibly blocked.",
	},
	models.CategoryAppliances: {
		"Can you verify the appliance is plugged in and the outlet works? Some appliances also have a reset button.",
		"Please check for any error code or blinking light on the display and let me know what it shows.",
	},
	models.CategoryRouter: {
		"Can you unplug the router for 10 seconds, plug it back in, and wait about 2 minutes for it to fully restart?",
		"Please check whether the router's indicator lights are on, and whether other devices can see the network.",
	},
	models.CategoryOther: {
		"Can you check whether the device or fixture is powered on and that nothing looks visibly damaged or disconnected?",
		"Please check for any indicator light, error message, or unusual sound, and describe what you observe.",
	},
}

// FallbackSuggestion returns a canned diagnostic step for the category,
// picking the first step not already suggested.
func FallbackSuggestion(category models.Category, previous []string) string {
	steps, ok := fallbackSteps[category]
	if !ok {
		steps = fallbackSteps[models.CategoryOther]
	}
	for _, s := range steps {
		if !containsStep(previous, s) {
			return s
		}
	}
	// every canned step already used; repeat the generic observation ask
	return fallbackSteps[models.CategoryOther][1]
}

func containsStep(previous []string, step string) bool {
	for _, p := range previous {
		if strings.TrimSpace(p) == strings.TrimSpace(step) {
			return true
		}
	}
	return false
}
