package history

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/cardwatch/internal/models"
)

// GormStore keeps the ledger in a sqlite database. It implements the same
// load-wholesale / save-wholesale contract as FileStore; the unique index on
// (product_id, date) with a do-nothing conflict clause keeps re-saves of the
// same day idempotent at the storage level too.
type GormStore struct {
	db *gorm.DB
}

type productRow struct {
	ProductID int    `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	SetName   string
}

func (productRow) TableName() string { return "products" }

type entryRow struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	ProductID   int    `gorm:"not null;uniqueIndex:idx_product_date"`
	Date        string `gorm:"not null;uniqueIndex:idx_product_date"`
	MarketPrice float64
	CardType    string
}

func (entryRow) TableName() string { return "history_entries" }

// NewGormStore opens or creates the sqlite database at dbPath and migrates
// the ledger schema.
func NewGormStore(dbPath string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.AutoMigrate(&productRow{}, &entryRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load() (models.History, error) {
	var products []productRow
	if err := s.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	h := models.History{}
	for _, p := range products {
		h[models.ProductKey(p.ProductID)] = &models.ProductRecord{
			Name:      p.Name,
			Set:       p.SetName,
			ProductID: p.ProductID,
		}
	}

	// Insertion order doubles as ingestion order for the in-memory ledger.
	var entries []entryRow
	if err := s.db.Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load history entries: %w", err)
	}
	for _, e := range entries {
		rec := h.Record(e.ProductID)
		if rec == nil {
			continue
		}
		rec.History = append(rec.History, models.HistoryEntry{
			Date:        e.Date,
			MarketPrice: e.MarketPrice,
			CardType:    models.CardType(e.CardType),
		})
	}
	return h, nil
}

func (s *GormStore) Save(h models.History) error {
	if len(h) == 0 {
		return nil
	}

	products := make([]productRow, 0, len(h))
	var entries []entryRow
	for _, rec := range h {
		products = append(products, productRow{
			ProductID: rec.ProductID,
			Name:      rec.Name,
			SetName:   rec.Set,
		})
		for _, e := range rec.History {
			entries = append(entries, entryRow{
				ProductID:   rec.ProductID,
				Date:        e.Date,
				MarketPrice: e.MarketPrice,
				CardType:    string(e.CardType),
			})
		}
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "set_name"}),
	}).Create(&products).Error
	if err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}

	if len(entries) == 0 {
		return nil
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&entries).Error
	if err != nil {
		return fmt.Errorf("failed to save history entries: %w", err)
	}
	return nil
}
