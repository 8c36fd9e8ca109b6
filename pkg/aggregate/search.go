package aggregate

import (
	"context"
	"errors"
	"strings"

	"github.com/xivtools/lodestone-aggregator/pkg/cache"
	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
)

// ErrMissingName is returned when a search is attempted without a name.
var ErrMissingName = errors.New("a name is required to search")

// Search performs a cached character name search. Search responses are
// list-style and churn faster than profiles, so they get the short TTL.
func (a *Aggregator) Search(ctx context.Context, name, server string, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}
	if page < 1 {
		page = 1
	}
	server = titleCase(server)

	key := cache.SearchKey(a.cfg.CacheVersion, name, server, page)

	var cached lodestone.Page[lodestone.CharacterRef]
	if a.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := a.client.Search(ctx, name, server, page)
	if err != nil {
		return nil, err
	}

	a.cache.SetJSON(ctx, key, result, a.cfg.SearchTTL)
	return result, nil
}

// titleCase normalizes a server name the way the upstream expects it
// ("phoenix" -> "Phoenix", "zodiark" -> "Zodiark").
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
