package audit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
	"github.com/jhoicas/po-console/pkg/format"
	"github.com/jhoicas/po-console/pkg/logger"
)

const (
	maxRetentionDays = 3650
	defaultDashDays  = 30
	topUsersLimit    = 5
)

var knownCategories = map[string]bool{
	entity.AuditEntityOrder:    true,
	entity.AuditEntityVendor:   true,
	entity.AuditEntityItem:     true,
	entity.AuditEntityTemplate: true,
	entity.AuditEntityApproval: true,
	entity.AuditEntityEmail:    true,
	entity.AuditEntityAuth:     true,
	entity.AuditEntitySystem:   true,
}

// UseCase visor, configuración, archivado y panel de auditoría.
type UseCase struct {
	repo     repository.AuditRepository
	recorder *Recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.AuditRepository, recorder *Recorder, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, recorder: recorder, log: log.Component("audit"), now: time.Now}
}

// Logs página del log con filtros.
func (uc *UseCase) Logs(ctx context.Context, companyID string, in dto.AuditLogRequest) (*dto.AuditLogListResponse, error) {
	in.DefaultPage()
	f := repository.AuditFilter{
		CompanyID:  companyID,
		UserID:     in.UserID,
		Action:     in.Action,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	var err error
	if f.From, f.To, err = ParseRange(in.From, in.To); err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.AuditLogResponse{
			ID:          l.ID,
			UserID:      l.UserID,
			UserName:    l.UserName,
			Action:      l.Action,
			EntityType:  l.EntityType,
			EntityID:    l.EntityID,
			Description: l.Description,
			Metadata:    l.Metadata,
			IPAddress:   l.IPAddress,
			CreatedAt:   l.CreatedAt,
			CreatedText: format.DateTime(l.CreatedAt),
		})
	}
	return &dto.AuditLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Settings configuración vigente (valores por defecto si nunca se guardó).
func (uc *UseCase) Settings(ctx context.Context, companyID string) (*dto.AuditSettingsResponse, error) {
	s, err := uc.settings(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(s), nil
}

// UpdateSettings valida y guarda la configuración.
func (uc *UseCase) UpdateSettings(ctx context.Context, actor Actor, in dto.AuditSettingsRequest) (*dto.AuditSettingsResponse, error) {
	var verrs dto.ValidationErrors
	if in.RetentionDays < 1 || in.RetentionDays > maxRetentionDays {
		verrs.Add("retentionDays", fmt.Sprintf("보관 기간은 1~%d일 사이여야 합니다.", maxRetentionDays))
	}
	for _, c := range in.EnabledCategories {
		if !knownCategories[c] {
			verrs.Add("enabledCategories", "알 수 없는 분류입니다: "+c)
			break
		}
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}
	s := &entity.AuditSettings{
		CompanyID:         actor.CompanyID,
		Enabled:           in.Enabled,
		RetentionDays:     in.RetentionDays,
		EnabledCategories: in.EnabledCategories,
		UpdatedBy:         actor.UserID,
		UpdatedAt:         uc.now(),
	}
	if err := uc.repo.SaveSettings(ctx, s); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, actor, Entry{
		Action:      entity.AuditSettingsChange,
		EntityType:  entity.AuditEntitySystem,
		Description: "감사 설정 변경",
		Metadata:    in,
	})
	return toSettingsResponse(s), nil
}

// Archive mueve al archivo los registros más antiguos que el periodo de retención.
func (uc *UseCase) Archive(ctx context.Context, actor Actor) (*dto.AuditArchiveResponse, error) {
	s, err := uc.settings(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	before := uc.now().AddDate(0, 0, -s.RetentionDays)
	n, err := uc.repo.ArchiveBefore(ctx, actor.CompanyID, before)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", actor.CompanyID).Int64("archived", n).Time("before", before).Msg("auditoría archivada")
	uc.recorder.Record(ctx, actor, Entry{
		Action:      entity.AuditArchive,
		EntityType:  entity.AuditEntitySystem,
		Description: fmt.Sprintf("감사 로그 %d건 보관", n),
	})
	return &dto.AuditArchiveResponse{Archived: n, Before: before}, nil
}

// Dashboard resumen de los últimos days días; las tres consultas corren en paralelo.
func (uc *UseCase) Dashboard(ctx context.Context, companyID string, days int) (*dto.AuditDashboardResponse, error) {
	if days <= 0 || days > 365 {
		days = defaultDashDays
	}
	since := uc.now().AddDate(0, 0, -days)

	var (
		byAction []repository.ActionCount
		byDay    []repository.DailyCount
		top      []repository.UserCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byAction, err = uc.repo.CountByAction(gctx, companyID, since)
		return err
	})
	g.Go(func() error {
		var err error
		byDay, err = uc.repo.CountByDay(gctx, companyID, since)
		return err
	})
	g.Go(func() error {
		var err error
		top, err = uc.repo.TopUsers(gctx, companyID, since, topUsersLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("audit dashboard: %w", err)
	}

	out := &dto.AuditDashboardResponse{
		Days:     days,
		ByAction: make([]dto.CountItem, 0, len(byAction)),
		ByDay:    make([]dto.CountItem, 0, len(byDay)),
		TopUsers: make([]dto.CountItem, 0, len(top)),
	}
	for _, a := range byAction {
		out.Total += int64(a.Count)
		out.ByAction = append(out.ByAction, dto.CountItem{Key: a.Action, Label: actionLabel(a.Action), Count: int64(a.Count)})
	}
	for _, d := range byDay {
		out.ByDay = append(out.ByDay, dto.CountItem{Key: d.Day.Format("2006-01-02"), Label: format.Date(d.Day), Count: int64(d.Count)})
	}
	for _, u := range top {
		out.TopUsers = append(out.TopUsers, dto.CountItem{Key: u.UserID, Label: format.OrEmpty(u.UserName), Count: int64(u.Count)})
	}
	return out, nil
}

func (uc *UseCase) settings(ctx context.Context, companyID string) (*entity.AuditSettings, error) {
	s, err := uc.repo.GetSettings(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = entity.DefaultAuditSettings(companyID)
	}
	return s, nil
}

func toSettingsResponse(s *entity.AuditSettings) *dto.AuditSettingsResponse {
	cats := s.EnabledCategories
	if cats == nil {
		cats = []string{}
	}
	return &dto.AuditSettingsResponse{
		Enabled:           s.Enabled,
		RetentionDays:     s.RetentionDays,
		EnabledCategories: cats,
		UpdatedBy:         s.UpdatedBy,
		UpdatedAt:         s.UpdatedAt,
	}
}

var actionLabels = map[string]string{
	entity.AuditCreate:         "생성",
	entity.AuditUpdate:         "수정",
	entity.AuditDelete:         "삭제",
	entity.AuditBulkDelete:     "일괄 삭제",
	entity.AuditSendEmail:      "이메일 발송",
	entity.AuditExport:         "내보내기",
	entity.AuditLogin:          "로그인",
	entity.AuditSettingsChange: "설정 변경",
	entity.AuditArchive:        "보관",
}

func actionLabel(a string) string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return a
}

// ParseRange interpreta from/to (YYYY-MM-DD); to incluye el día completo.
func ParseRange(from, to string) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if from != "" {
		d, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: from", domain.ErrInvalidInput)
		}
		f = &d
	}
	if to != "" {
		d, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: to", domain.ErrInvalidInput)
		}
		end := d.Add(24*time.Hour - time.Nanosecond)
		t = &end
	}
	return f, t, nil
}
