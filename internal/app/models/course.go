package models

import "time"

// Course represents a course in the catalog. Capacity is the number of
// seats currently advertised as offerable; it is not an enrollment count
// and is mutated only through the capacity adjustment operation.
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Credits     int       `json:"credits" db:"credits"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CourseUpdate describes a partial update to a course's descriptive
// fields. A nil field is left untouched; a non-nil field is written,
// so an empty description can be set explicitly. Capacity is excluded:
// it changes only through the capacity adjustment operation.
type CourseUpdate struct {
	Name        *string
	Description *string
	Credits     *int
}

// IsEmpty reports whether the update carries no fields at all.
func (u CourseUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Credits == nil
}
