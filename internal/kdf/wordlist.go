package kdf

// wordlist maps one byte to one recovery word. 256 entries, all distinct,
// chosen to be short and unambiguous when read aloud.
var wordlist = [256]string{
	"acid", "acorn", "actor", "adobe", "after", "agent", "alarm", "album",
	"alley", "alpha", "amber", "angle", "ankle", "apple", "april", "arena",
	"argon", "armor", "arrow", "aspen", "atlas", "attic", "autumn", "axis",
	"bacon", "badge", "bagel", "baker", "bamboo", "banjo", "barley", "basin",
	"beacon", "beard", "beetle", "bell", "bench", "berry", "bison", "blade",
	"blend", "bloom", "board", "bonus", "book", "bottle", "brick", "bridge",
	"brook", "brush", "bucket", "bugle", "bunker", "butter", "cabin", "cable",
	"cactus", "camel", "candle", "canoe", "canyon", "carbon", "cargo", "carpet",
	"castle", "cedar", "cellar", "chalk", "cherry", "chess", "chisel", "cider",
	"cinema", "circle", "citrus", "clay", "cliff", "clock", "cloud", "clover",
	"cobalt", "coffee", "comet", "copper", "coral", "cotton", "cradle", "crane",
	"crater", "cricket", "crystal", "curtain", "cycle", "daisy", "dawn", "delta",
	"denim", "desert", "diesel", "dome", "donkey", "dragon", "drum", "dune",
	"eagle", "easel", "echo", "eclipse", "eel", "elbow", "elder", "ember",
	"emerald", "engine", "envoy", "fabric", "falcon", "fern", "ferry", "fiddle",
	"field", "finch", "flint", "flora", "fossil", "fox", "frost", "galaxy",
	"garden", "garlic", "gecko", "geyser", "ginger", "glacier", "globe", "goose",
	"granite", "grape", "gravel", "grove", "guitar", "hammer", "harbor", "harp",
	"hazel", "heron", "hickory", "honey", "horizon", "hotel", "hound", "igloo",
	"india", "indigo", "iris", "iron", "island", "ivory", "jade", "jaguar",
	"jasper", "jelly", "jigsaw", "jungle", "juno", "kayak", "kettle", "kiwi",
	"knight", "koala", "lagoon", "lantern", "larch", "laser", "lava", "ledger",
	"lemon", "lentil", "lilac", "lime", "linen", "lizard", "lobster", "locust",
	"lotus", "lunar", "lynx", "magnet", "mango", "maple", "marble", "meadow",
	"melon", "mesa", "meteor", "mint", "mirror", "monsoon", "moose", "mosaic",
	"moss", "motor", "mural", "nectar", "nickel", "node", "north", "nougat",
	"nova", "nutmeg", "oasis", "ocean", "olive", "onion", "onyx", "opal",
	"orbit", "orchid", "osprey", "otter", "owl", "oyster", "panda", "paper",
	"parrot", "pearl", "pebble", "pecan", "pepper", "piano", "pigeon", "pine",
	"pixel", "planet", "plum", "polar", "pond", "poplar", "prism", "pump",
	"quarry", "quartz", "quill", "rabbit", "radar", "raven", "reef", "ridge",
	"river", "robin", "rocket", "rose", "ruby", "saddle", "salmon", "zephyr",
}

// wordIndex is the inverse of wordlist, built once at package init.
var wordIndex = func() map[string]byte {
	m := make(map[string]byte, len(wordlist))
	for i, w := range wordlist {
		m[w] = byte(i)
	}
	return m
}()
