package catalog

// Alias maps a short team name to a lower-cased full name.
type Alias struct {
	Name     string
	FullName string
}

var teamAliases = []Alias{
	{"lakers", "los angeles lakers"},
	{"celtics", "boston celtics"},
	{"warriors", "golden state warriors"},
	{"heat", "miami heat"},
	{"spurs", "san antonio spurs"},
	{"knicks", "new york knicks"},
	{"bulls", "chicago bulls"},
	{"mavs", "dallas mavericks"},
	{"mavericks", "dallas mavericks"},
	{"nets", "brooklyn nets"},
	{"clippers", "los angeles clippers"},
	{"suns", "phoenix suns"},
	{"nuggets", "denver nuggets"},
	{"bucks", "milwaukee bucks"},
	{"sixers", "philadelphia 76ers"},
	{"76ers", "philadelphia 76ers"},
	{"raptors", "toronto raptors"},
	{"wizards", "washington wizards"},
	{"hawks", "atlanta hawks"},
	{"hornets", "charlotte hornets"},
	{"cavs", "cleveland cavaliers"},
	{"cavaliers", "cleveland cavaliers"},
	{"pistons", "detroit pistons"},
	{"pacers", "indiana pacers"},
	{"grizzlies", "memphis grizzlies"},
	{"timberwolves", "minnesota timberwolves"},
	{"pelicans", "new orleans pelicans"},
	{"thunder", "oklahoma city thunder"},
	{"magic", "orlando magic"},
	{"blazers", "portland trail blazers"},
	{"trail blazers", "portland trail blazers"},
	{"kings", "sacramento kings"},
	{"jazz", "utah jazz"},
}
