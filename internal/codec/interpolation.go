package codec

import "regexp"

// %% is an escaped percent sign; %{name} and %<name> are interpolations.
var interpolationPattern = regexp.MustCompile(`%%|%\{(\w+)\}|%<(\w+)>`)

// Interpolations returns the interpolation variable names used in value, in
// first-seen order without duplicates. Non-string values have none.
func Interpolations(value any) []string {
	text, ok := value.(string)
	if !ok || text == "" {
		return []string{}
	}

	names := []string{}
	seen := map[string]struct{}{}
	for _, match := range interpolationPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if name == "" {
			name = match[2]
		}
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
