package sales

import (
	"strconv"
)

// Lookup says how a publisher token is matched.
type Lookup struct {
	Token string
	// ByID is set for tokens made only of ASCII digits.
	ByID bool
	ID   int64
	// Overflow marks a digit token outside the int4 range of serial keys;
	// it matches nothing.
	Overflow bool
}

// ParseToken classifies token. A non-empty run of ASCII digits is an
// identifier; anything else, including "-1", " 7" and "", is a name.
func ParseToken(token string) Lookup {
	l := Lookup{Token: token}
	if !isDigits(token) {
		return l
	}

	l.ByID = true
	id, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		l.Overflow = true
		return l
	}
	l.ID = id
	return l
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
