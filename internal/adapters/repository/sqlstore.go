package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/pkg/logger"
)

// Store drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// SQLStore is a Store backed by gorm. It serves both SQLite and PostgreSQL.
type SQLStore struct {
	db      *gorm.DB
	log     logger.Logger
	migrate bool
}

// Open returns the Store for driver. dsn is ignored by the memory driver.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMemory:
		return NewMemStore(), nil
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	return NewSQLStore(ctx, dialector, opts...)
}

// NewSQLStore opens dialector and migrates the schema unless
// WithoutMigration is given.
func NewSQLStore(ctx context.Context, dialector gorm.Dialector, opts ...Option) (*SQLStore, error) {
	s := &SQLStore{
		log:     logger.Named("store"),
		migrate: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}
	s.db = db

	if s.migrate {
		if err := db.WithContext(ctx).AutoMigrate(&memberRecord{}, &eventRecord{}); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	s.log.Info(ctx, "store opened", logger.String("driver", dialector.Name()), logger.Bool("migrated", s.migrate))
	return s, nil
}

func translate(kind, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %s: %w", kind, id, ErrConflict)
	default:
		return fmt.Errorf("%s %s: %w", kind, id, err)
	}
}

func (s *SQLStore) ListMembers(ctx context.Context) ([]model.Member, error) {
	defer observe("list_members", time.Now())
	var recs []memberRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]model.Member, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

func (s *SQLStore) GetMember(ctx context.Context, id string) (model.Member, error) {
	var rec memberRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return model.Member{}, translate("member", id, err)
	}
	return rec.toModel(), nil
}

func (s *SQLStore) CreateMember(ctx context.Context, m model.Member) (model.Member, error) {
	defer observe("create_member", time.Now())
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	rec := toMemberRecord(m)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.Member{}, translate("member", m.ID, err)
	}
	return rec.toModel(), nil
}

func (s *SQLStore) UpdateMember(ctx context.Context, m model.Member) (model.Member, error) {
	defer observe("update_member", time.Now())
	var out memberRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "id = ?", m.ID).Error; err != nil {
			return err
		}
		rec := toMemberRecord(m)
		if err := tx.Model(&out).Select(memberProfileColumns).Updates(&rec).Error; err != nil {
			return err
		}
		return tx.First(&out, "id = ?", m.ID).Error
	})
	if err != nil {
		return model.Member{}, translate("member", m.ID, err)
	}
	return out.toModel(), nil
}

func (s *SQLStore) DeleteMember(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&memberRecord{}, "id = ?", id)
	if res.Error != nil {
		return translate("member", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) ApplyTally(ctx context.Context, id string, t model.Tally) error {
	defer observe("apply_tally", time.Now())
	res := s.db.WithContext(ctx).Model(&memberRecord{}).Where("id = ?", id).Updates(map[string]any{
		"events_coordinated": t.EventsCoordinated,
		"events_volunteered": t.EventsVolunteered,
		"events_attended":    t.EventsAttended,
		"points":             t.Points,
	})
	if res.Error != nil {
		return translate("member", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) ListEvents(ctx context.Context, f EventFilter) ([]model.Event, error) {
	defer observe("list_events", time.Now())
	q := s.db.WithContext(ctx).Order("created_at, id")
	if f.CreatedBy != "" {
		q = q.Where("created_by = ?", f.CreatedBy)
	}
	var recs []eventRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]model.Event, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

func (s *SQLStore) GetEvent(ctx context.Context, id string) (model.Event, error) {
	var rec eventRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return model.Event{}, translate("event", id, err)
	}
	return rec.toModel(), nil
}

func (s *SQLStore) CreateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	defer observe("create_event", time.Now())
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	rec := toEventRecord(e)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.Event{}, translate("event", e.ID, err)
	}
	return rec.toModel(), nil
}

func (s *SQLStore) UpdateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	defer observe("update_event", time.Now())
	rec := toEventRecord(e)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur eventRecord
		if err := tx.First(&cur, "id = ?", e.ID).Error; err != nil {
			return err
		}
		return tx.Model(&cur).Select("*").Omit("id", "created_at").Updates(&rec).Error
	})
	if err != nil {
		return model.Event{}, translate("event", e.ID, err)
	}
	return rec.toModel(), nil
}

func (s *SQLStore) DeleteEvent(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&eventRecord{}, "id = ?", id)
	if res.Error != nil {
		return translate("event", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) Counts(ctx context.Context) (int, int, error) {
	var members, events int64
	db := s.db.WithContext(ctx)
	if err := db.Model(&memberRecord{}).Count(&members).Error; err != nil {
		return 0, 0, fmt.Errorf("count members: %w", err)
	}
	if err := db.Model(&eventRecord{}).Count(&events).Error; err != nil {
		return 0, 0, fmt.Errorf("count events: %w", err)
	}
	return int(members), int(events), nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
