// internal/model/team_member.go
package model

import "time"

type TeamMember struct {
    ID        string    `db:"id" json:"id"`
    Name      string    `db:"name" json:"name"`
    Email     *string   `db:"email" json:"email"`
    Role      *string   `db:"role" json:"role"`
    CreatedAt time.Time `db:"created_at" json:"created_at"`
}
