package models

import "time"

// SettingKeyMaintenance gates global request access when set to "true".
const SettingKeyMaintenance = "maintenance_mode"

// Setting is a generic key/value configuration row.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
