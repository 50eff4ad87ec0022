package traffic

// restaurantIDs mirrors the restaurant slugs seeded into the FoodMe demo
// API. get_one picks one of these at random so that well-formed lookups
// resolve to a real record; the injected variant uses an id that is
// guaranteed to miss.
var restaurantIDs = []string{
	"esthers",
	"robatayaki",
	"tofuparadise",
	"bateaurouge",
	"khartoum",
	"sallys",
	"saucy",
	"czechpoint",
	"speisewagen",
	"beijing",
	"satay",
	"cancun",
	"curryup",
	"carthage",
	"burgerama",
	"littlepigs",
	"littleprague",
	"kohlhaus",
	"dragon",
	"babythai",
	"wholetamale",
	"bhangra",
	"taqueria",
	"pedros",
	"superwonton",
	"naansequitur",
	"sakura",
	"shandong",
	"currygalore",
	"north",
	"beans",
	"jeeves",
	"zardoz",
	"angular",
	"flavia",
	"luigis",
	"thick",
	"wheninrome",
	"pizza76",
}

// invalidRestaurantID never matches a seeded restaurant, so lookups
// built with it exercise the API's not-found path.
const invalidRestaurantID = "invalid_restaurant"
