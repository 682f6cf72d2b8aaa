package domain

import "time"

// IdentityID is the opaque identifier of the signed-in identity.
type IdentityID string

// CivilDate renders t as the ISO calendar date string used to key briefings.
func CivilDate(t time.Time) string {
	return t.Format("2006-01-02")
}
