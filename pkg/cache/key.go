package cache

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultVersion is the current cache schema version tag. Bumping it rolls
// out a schema change without a manual purge; old entries simply expire.
const DefaultVersion = "v6"

var whitespace = regexp.MustCompile(`\s+`)

// Key identifies a cached entry. Keys are deterministic functions of the
// entity ID, the section name and the schema version, so concurrent
// requests for the same entity converge on the same entry.
type Key struct {
	prefix  string
	version string
	id      string
	section string
}

// ProfileKey returns the key of an entity's mandatory profile entry.
func ProfileKey(version, id string) Key {
	return Key{prefix: "lodestone_json_response", version: version, id: id}
}

// SectionKey returns the key of an optional section entry for an entity.
// Sections belonging to a different entity (free company, PvP team) are
// keyed by that entity's ID, not the requesting character's.
func SectionKey(version, id, section string) Key {
	return Key{prefix: "lodestone_json_response", version: version, id: id, section: section}
}

// SearchKey returns the key of a cached character search response.
func SearchKey(version, name, server string, page int) Key {
	id := whitespace.ReplaceAllString(strings.TrimSpace(name), "_") + server
	if page > 1 {
		id = fmt.Sprintf("%s%d", id, page)
	}
	return Key{prefix: "lodestone_search_json_response", version: version, id: id}
}

// String generates the deterministic key string.
// Format: <prefix>_<version>_<id>[_<SECTION>]
//
// Example:
//
//	lodestone_json_response_v6_9000_FC
func (k Key) String() string {
	version := k.version
	if version == "" {
		version = DefaultVersion
	}
	s := k.prefix + "_" + version + "_" + k.id
	if k.section != "" {
		s += "_" + k.section
	}
	return s
}
