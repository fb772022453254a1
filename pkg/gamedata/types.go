package gamedata

// StatCategory groups a character stat for display and logic.
type StatCategory string

const (
	CategoryRelation StatCategory = "relation"
	CategoryStatus   StatCategory = "status"
	CategorySkill    StatCategory = "skill"
)

// StatMeta describes one 0-100 character stat: its machine key, the
// display label the model writes in stat tags, and presentation hints.
// AutoIncrement, when nonzero, is applied once per month wrap.
type StatMeta struct {
	Key           string       `json:"key"`
	Label         string       `json:"label"`
	Color         string       `json:"color"`
	Icon          string       `json:"icon"`
	Category      StatCategory `json:"category"`
	AutoIncrement int          `json:"auto_increment,omitempty"`
}

// CharacterStats holds the mutable stat values for one character,
// keyed by StatMeta.Key. Values are clamped to [0,100].
type CharacterStats map[string]int

// Character is an immutable reference definition. Only the stat values
// derived from InitialStats change at runtime; they live in the game
// state, not here.
type Character struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Gender           string         `json:"gender"`
	Age              int            `json:"age"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Personality      string         `json:"personality"`
	SpeakingStyle    string         `json:"speaking_style"`
	Secret           string         `json:"secret"`
	TriggerPoints    []string       `json:"trigger_points"`
	BehaviorPatterns string         `json:"behavior_patterns"`
	ThemeColor       string         `json:"theme_color"`
	JoinMonth        int            `json:"join_month"`
	IsTrainee        bool           `json:"is_trainee"`
	StatMetas        []StatMeta     `json:"stat_metas"`
	InitialStats     CharacterStats `json:"initial_stats"`
}

// Scene is a location the player can move the story to.
type Scene struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Atmosphere  string   `json:"atmosphere"`
	Tags        []string `json:"tags"`
}

// ItemType partitions items by use semantics.
type ItemType string

const (
	ItemConsumable ItemType = "consumable"
	ItemQuest      ItemType = "quest"
	ItemSocial     ItemType = "social"
	ItemUpgrade    ItemType = "upgrade"
)

// Item is a usable or collectible object.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Type        ItemType `json:"type"`
	Description string   `json:"description"`
	MaxCount    int      `json:"max_count"`
	Cost        int      `json:"cost,omitempty"`
}

// Chapter is a narrative act spanning an inclusive month range.
type Chapter struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MonthStart  int    `json:"month_start"`
	MonthEnd    int    `json:"month_end"`
	Description string `json:"description"`
	Objectives  []string
	Atmosphere  string
}

// ForcedEvent is a scripted beat fired once when its month (and
// optional period) is reached. TriggerPeriod of -1 means any period.
type ForcedEvent struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TriggerMonth  int    `json:"trigger_month"`
	TriggerPeriod int    `json:"trigger_period"` // -1 for any
	Description   string `json:"description"`
}

// EndingType tags the flavor of a terminal outcome.
type EndingType string

const (
	EndingTrue   EndingType = "TE"
	EndingHappy  EndingType = "HE"
	EndingBad    EndingType = "BE"
	EndingNormal EndingType = "NE"
)

// Ending is static metadata for a terminal outcome. Condition is
// documentation only; the evaluator owns the real logic.
type Ending struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        EndingType `json:"type"`
	Description string     `json:"description"`
	Condition   string     `json:"condition"`
}

// TimePeriod is one slot of the daily cycle.
type TimePeriod struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Hours string `json:"hours"`
}
