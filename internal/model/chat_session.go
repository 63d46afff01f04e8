package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is one conversational exchange recorded by the chat layer.
// The engine only writes these alongside recipe proposals and deletes them
// via the retention sweeper; transcript rendering lives elsewhere.
type ChatSession struct {
	ID              uint   `gorm:"primaryKey"`
	SessionID       string `gorm:"uniqueIndex;not null"`
	UserMessage     string `gorm:"type:text"`
	AIResponse      string `gorm:"type:text"`
	RecipeGenerated bool
	ProductCode     *string   `gorm:"index"`
	Provider        string    // AI provider chosen per request, never process-wide
	CreatedAt       time.Time `gorm:"index"`
}

// UsageLog records one AI-assisted action against its owning session.
// Rows become orphaned when the sweeper removes the session and are collected
// on the following pass.
type UsageLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID   string    `gorm:"index;not null"`
	Provider    string
	ProductCode *string
	CreatedAt   time.Time
}
