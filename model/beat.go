package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Beat is an instrumental upload with its cover image. Vocals are recorded on
// top of a beat.
type Beat struct {
	ID       uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title    string    `json:"title" gorm:"size:255;not null"`
	Artist   string    `json:"artist" gorm:"size:255;not null"`
	Filename string    `json:"filename" gorm:"size:512;not null"` // Stored audio file name
	ImgPath  string    `json:"img_path" gorm:"column:img_path;size:512;not null"`
}

// TableName overrides the GORM table name.
func (Beat) TableName() string {
	return "beats"
}

// BeforeCreate generates the id when the caller did not set one.
func (b *Beat) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
