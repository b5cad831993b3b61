package domain

import "time"

// Profile holds the directory-facing data created alongside an account at
// registration. Directory CRUD lives outside this core; only creation and
// lookup are needed here.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	BatchYear int       `json:"batch_year"`
	Degree    string    `json:"degree"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalProfiles    int64 `json:"total_profiles"`
	ApprovedAlumni   int64 `json:"approved_alumni"`
	PendingApprovals int64 `json:"pending_approvals"`
}
