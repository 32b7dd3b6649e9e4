package repository

import (
	"database/sql"

	appErrors "github.com/unclebandit/abtest-tracker/internal/errors"
	"github.com/unclebandit/abtest-tracker/internal/model"
)

// TeamMemberRepositoryInterface defines methods used by the controller
type TeamMemberRepositoryInterface interface {
	ListAll() ([]model.TeamMember, error)
}

// TeamMemberRepository is the concrete implementation
type TeamMemberRepository struct {
	DB *sql.DB
}

// ListAll fetches all team members (used to populate the assignee picker)
func (r *TeamMemberRepository) ListAll() ([]model.TeamMember, error) {
	query := `
        SELECT id, name, email, role, created_at
        FROM team_members
        ORDER BY name
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, appErrors.NewStoreError("select", err)
	}
	defer rows.Close()

	members := []model.TeamMember{}
	for rows.Next() {
		var m model.TeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, appErrors.NewStoreError("scan", err)
		}
		members = append(members, m)
	}
	return members, nil
}
