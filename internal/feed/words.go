package feed

import (
	"strconv"
	"strings"
)

var (
	nameParts = []string{
		"alex", "sam", "nova", "kai", "riley", "jo", "max", "luna",
		"zed", "mira", "finn", "ash", "echo", "pixel", "vex", "orion",
	}
	nameSuffixes = []string{"", "_dev", "_x", ".bot", "_ops", "99", "_tg"}
	domainWords  = []string{
		"telegram", "weather", "payments", "geo", "translate",
		"stripe", "openmap", "newsfeed", "quotes", "media",
	}
	tlds  = []string{"com", "org", "io", "net", "dev"}
	words = []string{
		"hello", "please", "status", "update", "help", "order", "today",
		"check", "when", "the", "bot", "is", "my", "account", "thanks",
		"price", "again", "new", "send", "link",
	}
)

// The callers below run with g.mu held.

func (g *Generator) username() string {
	name := nameParts[g.rng.IntN(len(nameParts))] + nameSuffixes[g.rng.IntN(len(nameSuffixes))]
	if g.rng.IntN(2) == 0 {
		name += strconv.Itoa(g.rng.IntN(100))
	}
	return strings.ToLower(name)
}

func (g *Generator) domain() string {
	return "api." + domainWords[g.rng.IntN(len(domainWords))] + "." + tlds[g.rng.IntN(len(tlds))]
}

func (g *Generator) sentence() string {
	n := g.between(3, 8)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[g.rng.IntN(len(words))]
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
