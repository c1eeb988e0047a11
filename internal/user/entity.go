// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/lib/pq"

	"github.com/angelamos/tecai-kids/internal/agetier"
)

type User struct {
	ID             string         `db:"id"`
	Email          string         `db:"email"`
	PasswordHash   string         `db:"password_hash"`
	Name           string         `db:"name"`
	Age            int            `db:"age"`
	AgeLevel       agetier.Level  `db:"age_level"`
	ParentEmail    string         `db:"parent_email"`
	StudentEmail   *string        `db:"student_email"`
	Phone          *string        `db:"phone"`
	School         *string        `db:"school"`
	Grade          *int           `db:"grade"`
	Interests      pq.StringArray `db:"interests"`
	CareerGoals    pq.StringArray `db:"career_goals"`
	Avatar         *string        `db:"avatar"`
	Role           string         `db:"role"`
	TotalPoints    int64          `db:"total_points"`
	StreakDays     int            `db:"streak_days"`
	LastActivity   *time.Time     `db:"last_activity"`
	SubscriptionID *string        `db:"subscription_id"`
	TokenVersion   int            `db:"token_version"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SetAge stores age and the tier it resolves to. The tier is never written
// on its own.
func (u *User) SetAge(age int) error {
	level, err := agetier.Resolve(age)
	if err != nil {
		return err
	}
	u.Age = age
	u.AgeLevel = level
	return nil
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
