package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"huntier/internal/apperr"
	"huntier/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config 描述数据库连接，Driver 为 sqlite（默认）或 postgres。
type Config struct {
	Driver string `yaml:"driver" json:"driver"`
	Path   string `yaml:"path" json:"path"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

// Store 封装 applicants 表的写入与查询。
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// ApplicantQuery 提供分页参数。
type ApplicantQuery struct {
	Limit  int
	Offset int
}

// NewStore 创建 SQLite Store 并自动迁移数据表。
func NewStore(dbPath string) (*Store, error) {
	return Open(Config{Driver: "sqlite", Path: dbPath})
}

// Open 按配置打开数据库并迁移。
func Open(cfg Config) (*Store, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if err := db.AutoMigrate(&model.Applicant{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "huntier.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		return sqlite.Open(path), nil
	case "postgres", "postgresql":
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, fmt.Errorf("postgres dsn required")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// CreateApplicant 插入一条新申请，返回带 ID、CreatedAt 与 Reference 的记录。
func (s *Store) CreateApplicant(ctx context.Context, profile model.ApplicantProfile) (model.Applicant, error) {
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.Languages == nil {
		profile.Languages = []string{}
	}
	if profile.Certifications == nil {
		profile.Certifications = []string{}
	}
	if profile.Projects == nil {
		profile.Projects = []model.Project{}
	}

	applicant := model.Applicant{
		ApplicantProfile: profile,
		Reference:        uuid.NewString(),
		CreatedAt:        s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&applicant).Error; err != nil {
		return model.Applicant{}, apperr.Storage("create applicant", err)
	}
	return applicant, nil
}

// GetApplicant 根据 ID 获取申请，不存在时返回 sql.ErrNoRows。
func (s *Store) GetApplicant(ctx context.Context, id uint) (*model.Applicant, error) {
	var applicant model.Applicant
	if err := s.db.WithContext(ctx).First(&applicant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sql.ErrNoRows
		}
		return nil, apperr.Storage("get applicant", err)
	}
	return &applicant, nil
}

// ListApplicants 按创建时间倒序分页返回。
func (s *Store) ListApplicants(ctx context.Context, q ApplicantQuery) ([]model.Applicant, error) {
	var applicants []model.Applicant
	query := s.db.WithContext(ctx).Model(&model.Applicant{}).Order("created_at DESC").Order("id DESC")
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if err := query.Find(&applicants).Error; err != nil {
		return nil, apperr.Storage("list applicants", err)
	}
	return applicants, nil
}

// CountApplicants 返回申请总数。
func (s *Store) CountApplicants(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Applicant{}).Count(&total).Error; err != nil {
		return 0, apperr.Storage("count applicants", err)
	}
	return total, nil
}

// ListApplicantsSince 返回 since 之后（不含）创建的申请，按创建时间升序，用于摘要推送。
func (s *Store) ListApplicantsSince(ctx context.Context, since time.Time) ([]model.Applicant, error) {
	var applicants []model.Applicant
	if err := s.db.WithContext(ctx).
		Where("created_at > ?", since.UTC()).
		Order("created_at ASC").
		Order("id ASC").
		Find(&applicants).Error; err != nil {
		return nil, apperr.Storage("list applicants since", err)
	}
	return applicants, nil
}
