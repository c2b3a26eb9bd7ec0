package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Track is a finished production combining one beat and one vocal. The HTTP
// API exposes it under /music.
type Track struct {
	ID       uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title    string    `json:"title" gorm:"size:255;not null"`
	Artist   string    `json:"artist" gorm:"size:255;not null"`
	Filename string    `json:"filename" gorm:"size:512;not null"`
	ImgPath  string    `json:"img_path" gorm:"column:img_path;size:512;not null"`
	VocalID  uuid.UUID `json:"vocal_id" gorm:"type:varchar(36);not null;index"`
	BeatID   uuid.UUID `json:"beat_id" gorm:"type:varchar(36);not null;index"`

	Vocal *Vocal `json:"-" gorm:"foreignKey:VocalID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Beat  *Beat  `json:"-" gorm:"foreignKey:BeatID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName overrides the GORM table name.
func (Track) TableName() string {
	return "tracks"
}

// BeforeCreate generates the id when the caller did not set one.
func (t *Track) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Models lists every catalog table in creation order.
func Models() []interface{} {
	return []interface{}{&Beat{}, &Vocal{}, &Track{}}
}
