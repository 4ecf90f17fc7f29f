package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Category is the fixed urgency enumeration of a todo.
type Category string

const (
	CategoryUrgent    Category = "Urgent"
	CategoryNonUrgent Category = "Non-Urgent"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryUrgent || c == CategoryNonUrgent
}

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	DueDateLayout        = "2006-01-02"
)

// Todo is a task owned by exactly one principal.
type Todo struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	DueDate     string    `json:"dueDate,omitempty" db:"due_date"`
	Category    Category  `json:"category" db:"category"`
	Completed   bool      `json:"completed" db:"completed"`
	OwnerID     string    `json:"userId" db:"owner_id"`
	OwnerName   string    `json:"userName,omitempty" db:"owner_name"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Validate checks field limits and enumerations.
func (t *Todo) Validate() error {
	if t.Title == "" {
		return invalid("title", "title is required")
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return invalid("title", "title must be at most 100 characters")
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return invalid("description", "description must be at most 500 characters")
	}
	if t.DueDate != "" {
		if _, err := time.Parse(DueDateLayout, t.DueDate); err != nil {
			return invalid("dueDate", "due date must be formatted as YYYY-MM-DD")
		}
	}
	if !t.Category.Valid() {
		return invalid("category", "category must be Urgent or Non-Urgent")
	}
	return nil
}

// TodoInput is the create request body. Any owner supplied by the client is
// not part of it and therefore ignored.
type TodoInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Category    Category `json:"category"`
	Completed   *bool    `json:"completed"`
}

// Todo builds a new, not yet persisted todo for owner.
func (in *TodoInput) Todo(ownerID string) *Todo {
	t := &Todo{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     strings.TrimSpace(in.DueDate),
		Category:    in.Category,
		OwnerID:     ownerID,
	}
	if t.Category == "" {
		t.Category = CategoryNonUrgent
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	return t
}

// TodoPatch is a partial update. Nil fields are left untouched; the owner is
// not patchable.
type TodoPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	DueDate     *string   `json:"dueDate"`
	Category    *Category `json:"category"`
	Completed   *bool     `json:"completed"`
}

// Apply writes the non-nil fields of p onto t.
func (p *TodoPatch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = strings.TrimSpace(*p.DueDate)
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
