package model

import (
	"encoding/json"
	"time"
)

type Board struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	BoardJSON string `gorm:"column:board_json;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Document deserializes the stored board document.
func (b *Board) Document() (*Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(b.BoardJSON), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SetDocument serializes doc into the stored board document.
func (b *Board) SetDocument(doc *Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	b.BoardJSON = string(raw)
	return nil
}
