package extract

import "strings"

// foldDescription turns free text into a single sentence-terminated line.
func foldDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

// appendDescription folds s and appends it to an existing description.
func appendDescription(existing, s string) string {
	s = foldDescription(s)
	if existing == "" {
		return s
	}
	if s == "" {
		return existing
	}
	return existing + " " + s
}

// continueLines rewrites embedded newlines as C line continuations.
func continueLines(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " \\\n")
}

// stripCodeMarker removes the literal marker line from a code block and trims it.
func stripCodeMarker(raw string) string {
	first, rest, found := strings.Cut(raw, "\n")
	marker := strings.TrimSpace(first)
	if strings.HasPrefix(marker, "::") || strings.HasPrefix(marker, "..") {
		if !found {
			return ""
		}
		raw = rest
	}
	return strings.TrimSpace(raw)
}

// codeLines splits a code block into its lines with the marker removed.
func codeLines(raw string) []string {
	code := stripCodeMarker(raw)
	if code == "" {
		return []string{}
	}
	return strings.Split(code, "\n")
}

// containsYes reports whether s contains "yes" in any letter case.
func containsYes(s string) bool {
	return strings.Contains(strings.ToLower(s), "yes")
}

// subLabel normalises a second-level label such as "Condition:" to "condition".
func subLabel(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ":")
}

// unquoteLiteral strips inline literal markers ("``x``") from s.
func unquoteLiteral(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "`"))
}
