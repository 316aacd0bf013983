package notifier

import (
	"context"

	"huntier/internal/logger"
	"huntier/internal/model"

	"go.uber.org/zap"
)

// LogNotifier 仅记录新增申请，适合开发阶段或未配置邮件时使用。
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier 创建日志通知器，log 为 nil 时不输出。
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: logger.Named(log, "notifier")}
}

// Notify 逐条记录新增申请，邮箱脱敏。
func (n LogNotifier) Notify(ctx context.Context, applicants []model.Applicant) error {
	for _, a := range applicants {
		n.log.Info("new applicant",
			zap.Uint("id", a.ID),
			zap.String("name", a.Name),
			zap.String("email", logger.MaskEmail(a.Email)),
			zap.Strings("skills", a.Skills),
		)
	}
	return nil
}
