package domain

import "time"

type Organization struct {
	ID          int32     `json:"id"`
	AdminID     int32     `json:"admin_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedOn   time.Time `json:"created_on"`
}

type Department struct {
	ID        int32     `json:"id"`
	OrgID     int32     `json:"org_id"`
	Name      string    `json:"name"`
	CreatedOn time.Time `json:"created_on"`
}
