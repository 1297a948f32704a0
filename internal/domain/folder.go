// File: internal/domain/folder.go
package domain

import "time"

// Folder is a user-owned label attached to recipient rows. Deleting a folder
// detaches the rows pointing to it; it never deletes them.
type Folder struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}
