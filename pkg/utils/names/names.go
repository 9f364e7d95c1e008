// Package names generates the random two-word VM names used when the
// operator does not supply one.
package names

import (
	"math/rand/v2"
)

var adjectives = []string{
	"amber", "arcane", "brisk", "cerulean", "crimson", "dapper", "dusky", "ember",
	"feral", "fluid", "gilded", "glacial", "jade", "lunar", "mint", "nocturne",
	"opal", "primal", "quartz", "rapid", "scarlet", "silken", "silver", "stealthy",
	"swift", "vivid", "zenith",
}

var nouns = []string{
	"comet", "cipher", "falcon", "harbor", "horizon", "kernel", "lantern", "matrix",
	"nebula", "octave", "onyx", "packet", "prairie", "quasar", "quill", "raven",
	"relay", "saber", "sentinel", "spire", "synergy", "talon", "turbine", "vertex",
	"willow", "zephyr",
}

// Random returns an <adjective>-<noun> pair from two independent word lists
func Random() string {
	return adjectives[rand.IntN(len(adjectives))] + "-" + nouns[rand.IntN(len(nouns))]
}
