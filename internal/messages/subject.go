package messages

import "strings"

// SubjectMatches reports whether subj matches pattern, where pattern may use
// the NATS wildcards * (exactly one token) and > (one or more trailing tokens).
func SubjectMatches(pattern, subj string) bool {
	if pattern == subj {
		return true
	}
	pTok := strings.Split(pattern, ".")
	sTok := strings.Split(subj, ".")
	for i, pt := range pTok {
		if i >= len(sTok) {
			return false
		}
		switch pt {
		case ">":
			return true
		case "*":
			continue
		}
		if pt != sTok[i] {
			return false
		}
	}
	return len(sTok) == len(pTok)
}

// SessionFromSubject extracts the session token from a terminal subject, or
// "" when subj is not one.
func SessionFromSubject(subj string) string {
	parts := strings.Split(subj, ".")
	if len(parts) == 5 && parts[1] == "terminal" && parts[2] == "session" {
		return parts[3]
	}
	return ""
}
