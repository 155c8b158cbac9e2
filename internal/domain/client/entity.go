package client

import "time"

// Client is a tenant organization.
type Client struct {
	ID        string
	Name      string
	Timezone  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
