package domain

import (
	"fmt"

	"github.com/couchcryptid/cap-alert-etl/internal/codes"
)

const (
	// EventCodeSAME is the <eventCode> valueName carrying the SAME event code.
	EventCodeSAME = "SAME"

	noteTitleLen = 90
)

// Title is a short display name. The first Info decides: its P-VTEC
// phenomena and significance, else its SAME event code, else its event.
// Without any of those the note (truncated) or the identifier is used.
func (a *Alert) Title(tables *codes.Tables) string {
	if len(a.Infos) > 0 {
		info := a.Infos[0]
		switch {
		case info.VTEC != nil && info.VTEC.HasPVTEC:
			return fmt.Sprintf("%s %s", info.VTEC.Phenomena, info.VTEC.Significance)
		case info.EventCode(EventCodeSAME) != "":
			return tables.ExpandNWIS(info.EventCode(EventCodeSAME))
		case info.Event != "":
			return info.Event
		}
	}
	if a.Note != "" {
		r := []rune(a.Note)
		if len(r) > noteTitleLen {
			r = r[:noteTitleLen]
		}
		return string(r)
	}
	return a.ID
}
