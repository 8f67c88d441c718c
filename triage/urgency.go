package triage

import "strings"

// Level is a triage urgency tier using Indonesian hospital triage labels.
type Level struct {
	Label       string
	Description string
	Priority    int
}

var levels = map[string]Level{
	"low":       {Label: "NON-URGEN", Description: "Prioritas III - Ringan", Priority: 1},
	"medium":    {Label: "URGEN", Description: "Prioritas II - Serius tapi stabil", Priority: 3},
	"high":      {Label: "KRITIS", Description: "Prioritas I - Mengancam nyawa", Priority: 4},
	"emergency": {Label: "IMMEDIATE", Description: "Prioritas 0 - Segera ditangani", Priority: 5},
}

const defaultUrgency = "medium"

// LevelFor maps an urgency string to its tier. Unknown urgencies map to
// medium.
func LevelFor(urgency string) Level {
	if lvl, ok := levels[strings.ToLower(urgency)]; ok {
		return lvl
	}

	return levels[defaultUrgency]
}

// Normalize reconciles the model-reported urgency and priority: the urgency
// is lowercased (unknown becomes medium) and a priority more than one step
// from the tier's expected value is replaced by the expected value.
func Normalize(t *Triage) {
	urgency := strings.ToLower(t.Urgency)
	if _, ok := levels[urgency]; !ok {
		urgency = defaultUrgency
	}
	t.Urgency = urgency

	expected := levels[urgency].Priority
	if abs(t.Priority-expected) > 1 {
		t.Priority = expected
	}
}

// Emergency reports whether the triage calls for immediate medical
// attention.
func Emergency(t Triage) bool {
	urgency := strings.ToLower(t.Urgency)

	return urgency == "high" || urgency == "emergency" || t.Priority >= 4
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
