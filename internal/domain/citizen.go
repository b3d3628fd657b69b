package domain

import "time"

// Citizen is a village resident. A citizen with an EmployeeRole is a
// panchayat employee.
type Citizen struct {
	ID                       int64
	Name                     string
	Email                    string
	PasswordHash             string
	Gender                   string
	DOB                      time.Time
	HouseholdID              int64
	EducationalQualification string
	EmployeeRole             *string
	CreatedAt                time.Time
}

// IsEmployee reports whether the citizen has an employee association.
func (c *Citizen) IsEmployee() bool {
	return c.EmployeeRole != nil
}

// Role derives the session role from the employee association.
func (c *Citizen) Role() Role {
	if c.IsEmployee() {
		return RoleEmployee
	}
	return RoleCitizen
}

// Account adapts the citizen to the verifier's view.
func (c *Citizen) Account() *Account {
	return &Account{
		SubjectID:  c.ID,
		Email:      c.Email,
		Name:       c.Name,
		Role:       c.Role(),
		SecretHash: c.PasswordHash,
	}
}

// Household groups citizens under one address.
type Household struct {
	ID        int64
	Address   string
	Income    float64
	CreatedAt time.Time
}
