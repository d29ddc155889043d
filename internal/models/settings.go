package models

// SettingsID is the single row id the settings record lives under. A
// multi-user redesign would key this by user instead.
const SettingsID = "settings_0"

// DefaultModel is returned before any prompt has been sent.
const DefaultModel = "grok-3-mini-beta"

// Settings remembers the last-used selection so the UI can restore it.
// Overwritten wholesale on every prompt; no history.
type Settings struct {
	ID         string `json:"id"`
	DatabaseID string `json:"database_id"`
	APIKeyID   string `json:"api_key_id"`
	Model      string `json:"model"`
}
