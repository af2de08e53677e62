package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Planner struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index" json:"userId"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `json:"description"`
	Content     Content   `gorm:"type:jsonb" json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Planner) TableName() string {
	return "planners"
}

// Content is an opaque JSON document, typically a whiteboard snapshot.
// The zero value represents SQL NULL / JSON null.
type Content []byte

var jsonNull = []byte("null")

func (c Content) IsNull() bool {
	return len(c) == 0 || bytes.Equal(bytes.TrimSpace(c), jsonNull)
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsNull() {
		return jsonNull, nil
	}
	return []byte(c), nil
}

func (c *Content) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*c = nil
		return nil
	}
	if !json.Valid(data) {
		return fmt.Errorf("content: invalid json")
	}
	*c = append((*c)[:0], data...)
	return nil
}

func (c Content) Value() (driver.Value, error) {
	if c.IsNull() {
		return nil, nil
	}
	return string(c), nil
}

func (c *Content) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = nil
	case []byte:
		*c = append(Content(nil), v...)
	case string:
		*c = Content(v)
	default:
		return fmt.Errorf("content: unsupported scan type %T", src)
	}
	return nil
}
