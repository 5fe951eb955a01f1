// Package gamedata holds the static game content the wizard presents:
// regions and their timezones, classes and subclasses, ability-score
// brackets, guilds, and the battle-roster item catalog.
package gamedata

// Region groups countries for the timezone capture steps.
type Region struct {
	Name      string
	Countries []Country
}

// Country carries the timezones selectable once a country is picked.
type Country struct {
	Name      string
	Timezones []string
}

// Class is an in-game class with its subclass variants.
type Class struct {
	Name       string
	Subclasses []string
}

var Regions = []Region{
	{
		Name: "North America",
		Countries: []Country{
			{Name: "United States", Timezones: []string{"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles"}},
			{Name: "Canada", Timezones: []string{"America/Toronto", "America/Winnipeg", "America/Vancouver"}},
			{Name: "Mexico", Timezones: []string{"America/Mexico_City"}},
		},
	},
	{
		Name: "Europe",
		Countries: []Country{
			{Name: "United Kingdom", Timezones: []string{"Europe/London"}},
			{Name: "Germany", Timezones: []string{"Europe/Berlin"}},
			{Name: "France", Timezones: []string{"Europe/Paris"}},
			{Name: "Poland", Timezones: []string{"Europe/Warsaw"}},
		},
	},
	{
		Name: "Asia",
		Countries: []Country{
			{Name: "Japan", Timezones: []string{"Asia/Tokyo"}},
			{Name: "South Korea", Timezones: []string{"Asia/Seoul"}},
			{Name: "Singapore", Timezones: []string{"Asia/Singapore"}},
		},
	},
	{
		Name: "Oceania",
		Countries: []Country{
			{Name: "Australia", Timezones: []string{"Australia/Sydney", "Australia/Perth"}},
			{Name: "New Zealand", Timezones: []string{"Pacific/Auckland"}},
		},
	},
}

var Classes = []Class{
	{Name: "Frost Mage", Subclasses: []string{"Icicle", "Glacier", "Permafrost"}},
	{Name: "Flame Warden", Subclasses: []string{"Ember", "Inferno", "Cinder"}},
	{Name: "Storm Caller", Subclasses: []string{"Tempest", "Thunderhead", "Galeheart"}},
	{Name: "Shadow Blade", Subclasses: []string{"Nightfall", "Umbra", "Duskstep"}},
	{Name: "Dawn Cleric", Subclasses: []string{"Radiance", "Aegis", "Vesper"}},
	{Name: "Iron Vanguard", Subclasses: []string{"Bulwark", "Juggernaut", "Sentinel"}},
}

// ScoreBrackets are the ability-score ranges a player self-reports.
var ScoreBrackets = []string{
	"Under 10k",
	"10-12k",
	"12-14k",
	"14-16k",
	"16-18k",
	"18k+",
}

// Guilds are the affiliations selectable at the guild step. Which of these
// gates entry behind a peer vote is configuration, not game data.
var Guilds = []string{
	"Frostveil",
	"Emberfall",
	"Visitor",
	"None",
}

// RosterItems is the battle-roster catalog, prompted one at a time during
// registration.
var RosterItems = []string{
	"Frost Sigil",
	"Ember Crest",
	"Storm Totem",
	"Shadow Relic",
	"Dawn Chalice",
}

// Tiers are the levels a roster item can be held at.
var Tiers = []string{"T1", "T2", "T3", "T4", "T5"}

// ClassNames returns the class names in catalog order.
func ClassNames() []string {
	names := make([]string, len(Classes))
	for i, c := range Classes {
		names[i] = c.Name
	}
	return names
}

// SubclassesOf returns the subclasses of the named class, or nil when the
// class is unknown.
func SubclassesOf(class string) []string {
	for _, c := range Classes {
		if c.Name == class {
			return c.Subclasses
		}
	}
	return nil
}

// ValidClass reports whether name is a known class.
func ValidClass(name string) bool {
	return SubclassesOf(name) != nil
}

// ValidSubclass reports whether sub belongs to class.
func ValidSubclass(class, sub string) bool {
	for _, s := range SubclassesOf(class) {
		if s == sub {
			return true
		}
	}
	return false
}

// RegionNames returns the region names in catalog order.
func RegionNames() []string {
	names := make([]string, len(Regions))
	for i, r := range Regions {
		names[i] = r.Name
	}
	return names
}

// CountriesOf returns the country names within a region.
func CountriesOf(region string) []string {
	for _, r := range Regions {
		if r.Name == region {
			names := make([]string, len(r.Countries))
			for i, c := range r.Countries {
				names[i] = c.Name
			}
			return names
		}
	}
	return nil
}

// TimezonesOf returns the timezones for a region/country pair.
func TimezonesOf(region, country string) []string {
	for _, r := range Regions {
		if r.Name != region {
			continue
		}
		for _, c := range r.Countries {
			if c.Name == country {
				return c.Timezones
			}
		}
	}
	return nil
}

// ValidRegion reports whether name is a known region.
func ValidRegion(name string) bool {
	return CountriesOf(name) != nil
}

// ValidCountry reports whether country belongs to region.
func ValidCountry(region, country string) bool {
	return TimezonesOf(region, country) != nil
}

// ValidTimezone reports whether tz is selectable for the region/country pair.
func ValidTimezone(region, country, tz string) bool {
	for _, t := range TimezonesOf(region, country) {
		if t == tz {
			return true
		}
	}
	return false
}

// ValidBracket reports whether b is a known score bracket.
func ValidBracket(b string) bool {
	return contains(ScoreBrackets, b)
}

// ValidGuild reports whether g is a selectable guild.
func ValidGuild(g string) bool {
	return contains(Guilds, g)
}

// ValidTier reports whether t is a known roster tier.
func ValidTier(t string) bool {
	return contains(Tiers, t)
}

// ValidRosterItem reports whether item is in the roster catalog.
func ValidRosterItem(item string) bool {
	return contains(RosterItems, item)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
