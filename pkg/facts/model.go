package facts

import (
	"time"
)

// DateLayout is the wire format of a fact's creation date
const DateLayout = "2006-01-02"

// FactRecord is a stored fact. The text is unique across the table.
type FactRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Fact      string    `gorm:"column:fact;uniqueIndex;not null;size:512"`
	CreatedAt time.Time `gorm:"column:created_at;type:date;not null"`
}

// TableName sets the table name for GORM
func (FactRecord) TableName() string {
	return "cat_facts"
}

// LikeRecord marks a single fact as liked. At most one exists per fact.
type LikeRecord struct {
	ID      uint       `gorm:"primaryKey;autoIncrement"`
	FactID  uint       `gorm:"column:fact_id;uniqueIndex;not null"`
	LikedAt time.Time  `gorm:"column:liked_at;not null"`
	Fact    FactRecord `gorm:"foreignKey:FactID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for GORM
func (LikeRecord) TableName() string {
	return "likes"
}

// Fact is the public shape of a fact, also used as the all_facts cache payload
type Fact struct {
	ID        uint   `json:"id"`
	Fact      string `json:"fact"`
	CreatedAt string `json:"created_at"`
}

// LikedFact is one row of the likes listing
type LikedFact struct {
	LikeID    uint      `json:"like_id"`
	FactID    uint      `json:"fact_id"`
	Fact      string    `json:"fact"`
	CreatedAt string    `json:"created_at"`
	LikedAt   time.Time `json:"liked_at"`
}

func (r FactRecord) view() Fact {
	return Fact{
		ID:        r.ID,
		Fact:      r.Fact,
		CreatedAt: r.CreatedAt.Format(DateLayout),
	}
}

// today truncates t to its calendar date in UTC
func today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
