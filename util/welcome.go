package util

import (
	"encoding/json"
	"time"

	"fyne.io/fyne/v2"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/util/log"
)

// WelcomePreferenceKey is the preference holding the first-run record.
const WelcomePreferenceKey = "welcome_record"

// WelcomeRecord notes when the first-run welcome was dismissed and by which version.
type WelcomeRecord struct {
	Version string    `json:"version"`
	SeenAt  time.Time `json:"seen_at"`
}

// HasSeenWelcome reports whether the first-run welcome was already shown.
func HasSeenWelcome(prefs fyne.Preferences) bool {
	raw := prefs.StringWithFallback(WelcomePreferenceKey, "")
	if raw == "" {
		return false
	}
	var rec WelcomeRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Printf("Error parsing welcome record: %v", err)
		return false
	}
	return !rec.SeenAt.IsZero()
}

// MarkWelcomeSeen records that the welcome was shown by the running version.
func MarkWelcomeSeen(prefs fyne.Preferences) {
	data, err := json.Marshal(WelcomeRecord{Version: config.AppVersion, SeenAt: time.Now()})
	if err != nil {
		log.Printf("Error encoding welcome record: %v", err)
		return
	}
	prefs.SetString(WelcomePreferenceKey, string(data))
}
