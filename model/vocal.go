package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vocal is a voice recording made over a beat.
type Vocal struct {
	ID       uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title    string    `json:"title" gorm:"size:255;not null"`
	Artist   string    `json:"artist" gorm:"size:255;not null"`
	Filename string    `json:"filename" gorm:"size:512;not null"`
	BeatID   uuid.UUID `json:"beat_id" gorm:"type:varchar(36);not null;index"`

	// Only declared so the foreign key constraint is created; never loaded.
	Beat *Beat `json:"-" gorm:"foreignKey:BeatID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName overrides the GORM table name.
func (Vocal) TableName() string {
	return "vocals"
}

// BeforeCreate generates the id when the caller did not set one.
func (v *Vocal) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
