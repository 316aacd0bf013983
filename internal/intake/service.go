package intake

import (
	"context"

	"huntier/internal/apperr"
	"huntier/internal/logger"
	"huntier/internal/model"

	"go.uber.org/zap"
)

// Store 定义持久化接口。
type Store interface {
	CreateApplicant(ctx context.Context, profile model.ApplicantProfile) (model.Applicant, error)
}

// Notifier 在新申请入库后收到通知。
type Notifier interface {
	Notify(ctx context.Context, applicants []model.Applicant) error
}

// Service 负责归一化、写入与通知，不做任何重试。
type Service struct {
	store Store
	notif Notifier
	log   *zap.Logger
}

// NewService 创建申请服务，notif 可为 nil。
func NewService(store Store, notif Notifier, log *zap.Logger) *Service {
	return &Service{store: store, notif: notif, log: logger.Named(log, "intake")}
}

// Submit 归一化原始提交并写入存储。
// 校验失败返回 ValidationError，写入失败返回 StorageError；通知失败只记录日志。
func (s *Service) Submit(ctx context.Context, raw map[string]any) (model.Applicant, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		s.log.Debug("reject submission", zap.Error(err))
		return model.Applicant{}, err
	}
	if len(normalized.Unrecognized) > 0 {
		s.log.Debug("ignoring unrecognized fields", zap.Strings("fields", normalized.Unrecognized))
	}

	applicant, err := s.store.CreateApplicant(ctx, normalized.Profile)
	if err != nil {
		if !apperr.IsStorage(err) {
			err = apperr.Storage("create applicant", err)
		}
		s.log.Error("store applicant",
			zap.Error(err),
			zap.String("email", logger.MaskEmail(normalized.Profile.Email)),
		)
		return model.Applicant{}, err
	}

	s.log.Info("applicant stored",
		zap.Uint("id", applicant.ID),
		zap.String("reference", applicant.Reference),
		zap.Int("skills", len(applicant.Skills)),
	)

	if s.notif != nil {
		if err := s.notif.Notify(ctx, []model.Applicant{applicant}); err != nil {
			s.log.Warn("notify new applicant", zap.Uint("id", applicant.ID), zap.Error(err))
		}
	}
	return applicant, nil
}
