package facts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Store persists facts and likes using GORM
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates a fact store on an open connection and migrates its tables
func NewStore(db *gorm.DB) (*Store, error) {
	store := &Store{db: db, now: time.Now}

	// Auto-migrate tables
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return store, nil
}

// migrate creates or updates the required database tables
func (s *Store) migrate() error {
	return s.db.AutoMigrate(&FactRecord{}, &LikeRecord{})
}

// normalizeText trims fact text and rejects blank input
func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// Insert adds a new fact dated today
func (s *Store) Insert(ctx context.Context, text string) (InsertResult, error) {
	text, err := normalizeText(text)
	if err != nil {
		return InsertDuplicate, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&FactRecord{}).Where("fact = ?", text).Count(&count).Error; err != nil {
		return InsertDuplicate, fmt.Errorf("failed to check existing fact: %w", err)
	}
	if count > 0 {
		return InsertDuplicate, nil
	}

	record := &FactRecord{Fact: text, CreatedAt: today(s.now())}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		// A concurrent writer won the race for the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return InsertDuplicate, nil
		}
		return InsertDuplicate, fmt.Errorf("failed to create fact: %w", err)
	}

	return Inserted, nil
}

// List returns the newest facts first, at most limit of them
func (s *Store) List(ctx context.Context, limit int) ([]Fact, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var records []FactRecord
	if err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}

	return views(records), nil
}

// All returns every fact in insertion order
func (s *Store) All(ctx context.Context) ([]Fact, error) {
	var records []FactRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}

	return views(records), nil
}

// Count returns the number of stored facts
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&FactRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count facts: %w", err)
	}
	return count, nil
}

// Random returns the text of a uniformly chosen fact. The bool is false when the store is empty.
func (s *Store) Random(ctx context.Context) (string, bool, error) {
	var record FactRecord
	err := s.db.WithContext(ctx).Order(s.randomOrder()).Limit(1).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get random fact: %w", err)
	}

	return record.Fact, true, nil
}

func (s *Store) randomOrder() string {
	if s.db.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}

// Update replaces a fact's text, keeping its identity and creation date
func (s *Store) Update(ctx context.Context, id uint, text string) (UpdateResult, error) {
	text, err := normalizeText(text)
	if err != nil {
		return UpdateNotFound, err
	}

	result := Updated
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record FactRecord
		if err := tx.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = UpdateNotFound
				return nil
			}
			return fmt.Errorf("failed to get fact: %w", err)
		}

		var count int64
		if err := tx.Model(&FactRecord{}).Where("fact = ? AND id <> ?", text, id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing fact: %w", err)
		}
		if count > 0 {
			result = UpdateDuplicate
			return nil
		}

		if err := tx.Model(&record).Update("fact", text).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result = UpdateDuplicate
				return nil
			}
			return fmt.Errorf("failed to update fact: %w", err)
		}
		return nil
	})
	if err != nil {
		return UpdateNotFound, err
	}

	return result, nil
}

// Delete removes a fact together with its like
func (s *Store) Delete(ctx context.Context, id uint) (DeleteResult, error) {
	result := Deleted
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Not every engine enforces ON DELETE CASCADE (SQLite needs a pragma), so remove likes explicitly
		if err := tx.Where("fact_id = ?", id).Delete(&LikeRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}

		res := tx.Delete(&FactRecord{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete fact: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			result = DeleteNotFound
		}
		return nil
	})
	if err != nil {
		return DeleteNotFound, err
	}

	return result, nil
}

// Like records a like for a fact
func (s *Store) Like(ctx context.Context, id uint) (LikeResult, error) {
	result := Liked
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&FactRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check fact: %w", err)
		}
		if count == 0 {
			result = LikeNotFound
			return nil
		}

		if err := tx.Model(&LikeRecord{}).Where("fact_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing like: %w", err)
		}
		if count > 0 {
			result = LikeDuplicate
			return nil
		}

		like := &LikeRecord{FactID: id, LikedAt: s.now().UTC()}
		if err := tx.Omit("Fact").Create(like).Error; err != nil {
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
				result = LikeDuplicate
				return nil
			case errors.Is(err, gorm.ErrForeignKeyViolated):
				result = LikeNotFound
				return nil
			}
			return fmt.Errorf("failed to create like: %w", err)
		}
		return nil
	})
	if err != nil {
		return LikeNotFound, err
	}

	return result, nil
}

// likeRow is the scan target of the likes listing join
type likeRow struct {
	LikeID    uint
	FactID    uint
	Fact      string
	CreatedAt time.Time
	LikedAt   time.Time
}

// ListLikes returns liked facts, most recently liked first
func (s *Store) ListLikes(ctx context.Context) ([]LikedFact, error) {
	var rows []likeRow
	err := s.db.WithContext(ctx).
		Table("likes").
		Select("likes.id AS like_id, likes.fact_id AS fact_id, cat_facts.fact AS fact, cat_facts.created_at AS created_at, likes.liked_at AS liked_at").
		Joins("JOIN cat_facts ON cat_facts.id = likes.fact_id").
		Order("likes.liked_at DESC, likes.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}

	liked := make([]LikedFact, len(rows))
	for i, row := range rows {
		liked[i] = LikedFact{
			LikeID:    row.LikeID,
			FactID:    row.FactID,
			Fact:      row.Fact,
			CreatedAt: row.CreatedAt.Format(DateLayout),
			LikedAt:   row.LikedAt,
		}
	}

	return liked, nil
}

// Unlike removes the like on a fact
func (s *Store) Unlike(ctx context.Context, id uint) (UnlikeResult, error) {
	res := s.db.WithContext(ctx).Where("fact_id = ?", id).Delete(&LikeRecord{})
	if res.Error != nil {
		return UnlikeNotFound, fmt.Errorf("failed to delete like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return UnlikeNotFound, nil
	}

	return Unliked, nil
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}

func views(records []FactRecord) []Fact {
	out := make([]Fact, len(records))
	for i, record := range records {
		out[i] = record.view()
	}
	return out
}
