package domain

import "time"

// Student is a per-tenant student record. SchoolID links it back to the
// owning School's tenant identifier.
type Student struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Guardian   string    `json:"guardian,omitempty"`
	DOB        string    `json:"dob"`
	Gender     string    `json:"gender"`
	BloodGroup string    `json:"bloodGroup,omitempty"`
	Religion   string    `json:"religion"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address"`
	State      string    `json:"state"`
	Country    string    `json:"country"`
	Class      string    `json:"class"`
	Section    string    `json:"section"`
	Group      string    `json:"group,omitempty"`
	StudentNo  string    `json:"studentNo"`
	RollNo     string    `json:"rollNo,omitempty"`
	Picture    string    `json:"picture,omitempty"`
	Username   string    `json:"username"`
	Password   string    `json:"-"`
	SchoolID   string    `json:"schoolId"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
