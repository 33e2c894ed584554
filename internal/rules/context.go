package rules

// UserContext is an open attribute map evaluated by rule conditions. Values
// decoded from JSON arrive as bool, float64 or string.
type UserContext map[string]any

// Resolve looks an attribute up by its literal name, then by its camelCase
// form. Rule authors tend to write snake_case attribute names against
// camelCase contexts; both must reach the same value.
func (c UserContext) Resolve(name string) (any, bool) {
	if v, ok := c[name]; ok {
		return v, true
	}
	if v, ok := c[snakeToCamel(name)]; ok {
		return v, true
	}
	return nil, false
}

// snakeToCamel rewrites is_first_time into isFirstTime. Underscores not
// followed by a lowercase letter are kept as-is.
func snakeToCamel(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' && i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z' {
			out = append(out, s[i+1]-'a'+'A')
			i++
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
