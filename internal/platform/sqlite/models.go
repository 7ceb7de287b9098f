package sqlite

import (
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
)

type taskModel struct {
	ID          int64     `gorm:"primaryKey"`
	Entry       string    `gorm:"not null"`
	EntryLower  string    `gorm:"column:entry_lower;not null;default:'';index"`
	Priority    string    `gorm:"not null;index"`
	Due         time.Time `gorm:"not null;index"`
	Completed   bool      `gorm:"not null;default:false"`
	CompletedAt *time.Time
}

// TableName returns the table name for taskModel.
func (taskModel) TableName() string {
	return "tasks"
}

func newTaskModel(t *domain.Task) *taskModel {
	m := &taskModel{
		ID:         t.ID,
		Entry:      t.Entry,
		EntryLower: taskquery.Fold(t.Entry),
		Priority:   string(t.Priority),
		Due:        t.Due.UTC(),
		Completed:  t.Completed,
	}
	if t.CompletedAt != nil {
		at := t.CompletedAt.UTC()
		m.CompletedAt = &at
	}
	return m
}

func (m *taskModel) toDomain() domain.Task {
	t := domain.Task{
		ID:        m.ID,
		Entry:     m.Entry,
		Priority:  domain.Priority(m.Priority),
		Due:       m.Due.UTC(),
		Completed: m.Completed,
	}
	if m.CompletedAt != nil {
		at := m.CompletedAt.UTC()
		t.CompletedAt = &at
	}
	return t
}

type userModel struct {
	ID         int64     `gorm:"primaryKey"`
	Username   string    `gorm:"not null;uniqueIndex"`
	Password   string    `gorm:"not null"`
	Role       string    `gorm:"not null;default:user"`
	SignupDate time.Time `gorm:"not null"`
}

// TableName returns the table name for userModel.
func (userModel) TableName() string {
	return "users"
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:             m.ID,
		Username:       m.Username,
		HashedPassword: m.Password,
		Role:           domain.Role(m.Role),
		SignupDate:     m.SignupDate.UTC(),
	}
}
