package service

import (
	"context"
	"time"

	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const auditPersistTimeout = 5 * time.Second

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new audit service.
// If repo is nil, audit entries are only written to the logger.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Log records an audit entry asynchronously (fire-and-forget).
// Missing ID and CreatedAt are filled in.
func (s *auditService) Log(ctx context.Context, entry *domain.AuditLog) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	bg := context.WithoutCancel(ctx)

	go func() {
		s.log.Info().
			Str("action", string(entry.Action)).
			Str("subject", entry.Subject).
			Str("resource_type", entry.ResourceType).
			Str("resource_id", entry.ResourceID).
			Str("ip", entry.IPAddress).
			Msg("audit")

		if s.repo == nil {
			return
		}
		pctx, cancel := context.WithTimeout(bg, auditPersistTimeout)
		defer cancel()
		if err := s.repo.Create(pctx, entry); err != nil {
			s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
		}
	}()
}
