package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Phone string     `json:"phone"`
}

// Project is the read model the scheduler works with: a project row joined
// with its client, location and project type.
type Project struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Title              string     `db:"title" json:"title"`
	StartDate          *time.Time `db:"start_date" json:"start_date,omitempty"`
	Notes              string     `db:"notes" json:"notes,omitempty"`
	Price              *float64   `db:"price" json:"price,omitempty"`
	LocationName       string     `db:"location_name" json:"location_name,omitempty"`
	LinkedLocationName string     `db:"linked_location_name" json:"linked_location_name,omitempty"`
	ProjectTypeName    string     `db:"project_type_name" json:"project_type_name,omitempty"`

	ClientName  string `db:"client_name" json:"client_name,omitempty"`
	ClientEmail string `db:"client_email" json:"client_email,omitempty"`
	ClientPhone string `db:"client_phone" json:"client_phone,omitempty"`

	ClientID          *uuid.UUID `db:"client_id" json:"client_id,omitempty"`
	LinkedClientName  string     `db:"linked_client_name" json:"-"`
	LinkedClientEmail string     `db:"linked_client_email" json:"-"`
	LinkedClientPhone string     `db:"linked_client_phone" json:"-"`
}

// Location prefers the inline location name over the linked location record.
func (p *Project) Location() string {
	if name := strings.TrimSpace(p.LocationName); name != "" {
		return name
	}
	return strings.TrimSpace(p.LinkedLocationName)
}

// ResolveClient returns the project's client, preferring inline fields over
// the linked clients record. It returns nil when neither yields a name or a
// contact address.
func (p *Project) ResolveClient() *Client {
	inline := Client{
		Name:  strings.TrimSpace(p.ClientName),
		Email: strings.TrimSpace(p.ClientEmail),
		Phone: strings.TrimSpace(p.ClientPhone),
	}
	linked := Client{
		ID:    p.ClientID,
		Name:  strings.TrimSpace(p.LinkedClientName),
		Email: strings.TrimSpace(p.LinkedClientEmail),
		Phone: strings.TrimSpace(p.LinkedClientPhone),
	}

	if inline.Name != "" || inline.Email != "" || inline.Phone != "" {
		inline.ID = p.ClientID
		if inline.Name == "" {
			inline.Name = linked.Name
		}
		if inline.Email == "" {
			inline.Email = linked.Email
		}
		if inline.Phone == "" {
			inline.Phone = linked.Phone
		}
		return &inline
	}
	if p.ClientID != nil && (linked.Name != "" || linked.Email != "" || linked.Phone != "") {
		return &linked
	}
	return nil
}
