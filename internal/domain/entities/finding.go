package entities

// Finding is a single potential misuse reported by a detector
type Finding struct {
	Rank        int
	File        string
	Method      string
	Description string
	Extra       map[string]string
}

// Matches reports whether the finding points at the misuse location: the
// finding's file ends with the misuse file and the method names agree once
// parameter lists are ignored
func (f Finding) Matches(loc Location) bool {
	if loc.File == "" || f.File == "" {
		return false
	}
	if !pathEndsWith(f.File, loc.File) && !pathEndsWith(loc.File, f.File) {
		return false
	}
	if loc.Method == "" {
		return true
	}
	return MethodName(f.Method) == MethodName(loc.Method)
}

func pathEndsWith(path, suffix string) bool {
	p := normalizePath(path)
	s := normalizePath(suffix)
	if len(s) > len(p) {
		return false
	}
	if p[len(p)-len(s):] != s {
		return false
	}
	// Only match on whole path segments
	return len(p) == len(s) || p[len(p)-len(s)-1] == '/' || s[0] == '/'
}

func normalizePath(path string) string {
	out := make([]byte, 0, len(path))
	for i := 0; i < len(path); i++ {
		if path[i] == '\\' {
			out = append(out, '/')
			continue
		}
		out = append(out, path[i])
	}
	return string(out)
}
