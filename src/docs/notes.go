package docs

import "strings"

// EventNotes is the structured view of the free-form notes field. Organizers
// enter pipe-delimited "key: value" segments; anything unrecognized lands in
// Extra so nothing typed into the form is silently dropped.
type EventNotes struct {
	Audience string
	Rider    string
	Travel   string
	Extra    map[string]string
}

func ParseEventNotes(raw string) *EventNotes {
	notes := &EventNotes{Extra: map[string]string{}}
	for _, segment := range strings.Split(raw, "|") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		key, value, found := strings.Cut(segment, ":")
		if !found {
			// bare segment without a key, keep it under a synthetic key
			notes.Extra["note"] = strings.TrimSpace(segment)
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case "audience":
			notes.Audience = value
		case "rider":
			notes.Rider = value
		case "travel":
			notes.Travel = value
		default:
			notes.Extra[key] = value
		}
	}
	return notes
}

func (n *EventNotes) Empty() bool {
	return n.Audience == "" && n.Rider == "" && n.Travel == "" && len(n.Extra) == 0
}
