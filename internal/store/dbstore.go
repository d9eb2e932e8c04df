package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hesabyar/internal/format"
	"hesabyar/internal/models"
)

// documentRowID: the table only ever holds this one row.
const documentRowID = 1

// AppDocument is the single-row table the whole aggregate lives in.
type AppDocument struct {
	ID        uint      `gorm:"primaryKey"`
	Body      string    `gorm:"type:longtext"`
	UpdatedAt time.Time
}

// DBStore keeps the document as one JSON blob in a MySQL row. This is
// the backing behind the read/replace document endpoint.
type DBStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDBStore connects to MySQL with a short retry loop (the database
// container is often still warming up) and migrates the document table.
func NewDBStore(dsn string, logger *zap.Logger) (*DBStore, error) {
	if dsn == "" {
		return nil, errors.New("empty DB_DSN, configure the database in .env")
	}

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		logger.Warn("failed to connect to database, retrying in 2 seconds",
			zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database after 5 attempts: %w", err)
	}

	if err := db.AutoMigrate(&AppDocument{}); err != nil {
		return nil, fmt.Errorf("migrate document table: %w", err)
	}

	logger.Info("connected to MySQL document store")
	return &DBStore{db: db, logger: logger}, nil
}

// Load reads the stored row. An absent row seeds the default document
// and creates it.
func (s *DBStore) Load(ctx context.Context) (models.AppData, error) {
	var row AppDocument
	err := s.db.WithContext(ctx).First(&row, documentRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Info("no document row found, seeding defaults")
		seed := models.DefaultData(format.TodayJalali().String())
		if saveErr := s.Save(ctx, seed); saveErr != nil {
			return models.AppData{}, saveErr
		}
		return seed, nil
	}
	if err != nil {
		return models.AppData{}, fmt.Errorf("read document row: %w", err)
	}

	var data models.AppData
	if err := json.Unmarshal([]byte(row.Body), &data); err != nil {
		return models.AppData{}, fmt.Errorf("decode document row: %w", err)
	}
	return data, nil
}

// Save upserts the single row with the full aggregate, creating it when
// absent. There is no versioning: last write wins.
func (s *DBStore) Save(ctx context.Context, data models.AppData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	row := AppDocument{ID: documentRowID, Body: string(raw), UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("replace document row: %w", err)
	}
	return nil
}
