package domain

import "time"

// Monitor is a government monitor with read access to village statistics.
type Monitor struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Account adapts the monitor to the verifier's view.
func (m *Monitor) Account() *Account {
	return &Account{
		SubjectID:  m.ID,
		Email:      m.Email,
		Name:       m.Name,
		Role:       RoleMonitor,
		SecretHash: m.PasswordHash,
	}
}

// Admin is a system administrator.
type Admin struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Account adapts the admin to the verifier's view.
func (a *Admin) Account() *Account {
	return &Account{
		SubjectID:  a.ID,
		Email:      a.Email,
		Name:       a.Name,
		Role:       RoleAdmin,
		SecretHash: a.PasswordHash,
	}
}
