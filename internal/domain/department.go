package domain

import "time"

// Department is a routing target for department complaints.
type Department struct {
	Code        string
	Name        string
	HeadContact string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
