package model

import "time"

// BusinessSettings is the read-only business profile used while rendering.
type BusinessSettings struct {
	BusinessName string `json:"business_name"`
	OwnerName    string `json:"owner_name"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	LogoURL      string `json:"logo_url"`
}

type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

type ContractSettings struct {
	BusinessName string    `db:"business_name" json:"business_name"`
	OwnerName    string    `db:"owner_name" json:"owner_name"`
	Email        string    `db:"email" json:"email"`
	Address      string    `db:"address" json:"address"`
	LogoURL      string    `db:"logo_url" json:"logo_url"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
