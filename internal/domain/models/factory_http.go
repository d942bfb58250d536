package models

// Request bodies of the content factory HTTP API.

type MasterKeyRequest struct {
	MasterKey string `json:"masterKey" validate:"required"`
}

type NicheRequest struct {
	Niche string `json:"niche" validate:"required"`
}

type AutoPilotRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// VaultState tells the dashboard which gate to render.
type VaultState struct {
	SetupRequired bool `json:"setupRequired"`
}

// BackendState is the last companion probe result.
type BackendState struct {
	Status      string `json:"status"`
	LastChecked int64  `json:"lastChecked,omitempty"`
}
