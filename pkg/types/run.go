package types

// Run types. A run is performed solo, as a race, cooperatively, or as a relay.
const (
	RunTypeSingle = "single"
	RunTypeRace   = "race"
	RunTypeCoop   = "coop"
	RunTypeRelay  = "relay"
)

// Run is a single competitive or cooperative segment of the event. Runs are
// owned by an external registry; the scheduling core only reads them.
type Run struct {
	RunID     string   `json:"run_id"`
	Game      string   `json:"game"`
	Category  string   `json:"category"`
	Type      string   `json:"type"`
	Console   string   `json:"console"`
	Estimate  Duration `json:"estimate"`
	RunnerIDs []string `json:"runners"`
}

// Connections holds a runner's contact handles. Discord is required for
// event coordination; the rest are optional.
type Connections struct {
	Discord string `json:"discord"`
	Twitch  string `json:"twitch,omitempty"`
	Twitter string `json:"twitter,omitempty"`
	YouTube string `json:"youtube,omitempty"`
}

// Runner is a participant who performs runs. Owned by an external registry.
type Runner struct {
	RunnerID    string      `json:"runner_id"`
	Name        string      `json:"name"`
	Connections Connections `json:"connections"`
}
