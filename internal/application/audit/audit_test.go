package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/testutil"
)

var actor = Actor{UserID: "u1", UserName: "김철수", CompanyID: "c1", Role: entity.RoleAdmin}

func TestRecorder_RespectsEnabledCategories(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewAuditRepo()
	rec := NewRecorder(repo, nil)

	rec.Record(ctx, actor, Entry{Action: entity.AuditCreate, EntityType: entity.AuditEntityOrder, EntityID: "o1"})
	require.Len(t, repo.Logs, 1)
	assert.Equal(t, "김철수", repo.Logs[0].UserName)

	require.NoError(t, repo.SaveSettings(ctx, &entity.AuditSettings{
		CompanyID: "c1", Enabled: true, RetentionDays: 30,
		EnabledCategories: []string{entity.AuditEntityVendor},
	}))
	rec.Record(ctx, actor, Entry{Action: entity.AuditCreate, EntityType: entity.AuditEntityOrder})
	rec.Record(ctx, actor, Entry{Action: entity.AuditUpdate, EntityType: entity.AuditEntityVendor, Metadata: map[string]string{"name": "A"}})
	require.Len(t, repo.Logs, 2)
	assert.Equal(t, entity.AuditEntityVendor, repo.Logs[1].EntityType)
	assert.JSONEq(t, `{"name":"A"}`, string(repo.Logs[1].Metadata))
}

func TestRecorder_DisabledSkipsEverything(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewAuditRepo()
	require.NoError(t, repo.SaveSettings(ctx, &entity.AuditSettings{CompanyID: "c1", Enabled: false, RetentionDays: 30}))

	NewRecorder(repo, nil).Record(ctx, actor, Entry{Action: entity.AuditDelete, EntityType: entity.AuditEntityOrder})
	assert.Empty(t, repo.Logs)
}

func TestRecorder_ErrorIsNotPropagated(t *testing.T) {
	repo := testutil.NewAuditRepo()
	repo.Err = errors.New("db down")
	rec := NewRecorder(repo, nil)

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), actor, Entry{Action: entity.AuditCreate, EntityType: entity.AuditEntityOrder})
	})
	assert.Error(t, rec.RecordWith(context.Background(), repo, actor, Entry{Action: entity.AuditCreate}))
}

func TestUseCase_UpdateSettingsValidates(t *testing.T) {
	uc := NewUseCase(testutil.NewAuditRepo(), nil, nil)

	_, err := uc.UpdateSettings(context.Background(), actor, dto.AuditSettingsRequest{Enabled: true, RetentionDays: 0})
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "retentionDays", verrs[0].Field)

	_, err = uc.UpdateSettings(context.Background(), actor, dto.AuditSettingsRequest{
		Enabled: true, RetentionDays: 90, EnabledCategories: []string{"payroll"},
	})
	require.ErrorAs(t, err, &verrs)
}

func TestUseCase_SettingsDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewAuditRepo()
	uc := NewUseCase(repo, NewRecorder(repo, nil), nil)

	s, err := uc.Settings(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, s.Enabled)
	assert.Equal(t, 365, s.RetentionDays)
	assert.NotNil(t, s.EnabledCategories)

	s, err = uc.UpdateSettings(ctx, actor, dto.AuditSettingsRequest{Enabled: true, RetentionDays: 90})
	require.NoError(t, err)
	assert.Equal(t, 90, s.RetentionDays)
	assert.Equal(t, []string{entity.AuditSettingsChange}, repo.Actions())
}

func TestUseCase_ArchiveUsesRetention(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	repo := testutil.NewAuditRepo()
	require.NoError(t, repo.SaveSettings(ctx, &entity.AuditSettings{CompanyID: "c1", Enabled: true, RetentionDays: 30}))
	repo.Logs = []*entity.AuditLog{
		{ID: "old", CompanyID: "c1", Action: entity.AuditCreate, CreatedAt: now.AddDate(0, 0, -40)},
		{ID: "new", CompanyID: "c1", Action: entity.AuditCreate, CreatedAt: now.AddDate(0, 0, -5)},
		{ID: "other", CompanyID: "c2", Action: entity.AuditCreate, CreatedAt: now.AddDate(0, 0, -40)},
	}
	uc := NewUseCase(repo, nil, nil)
	uc.now = func() time.Time { return now }

	res, err := uc.Archive(ctx, actor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Archived)
	assert.Equal(t, now.AddDate(0, 0, -30), res.Before)
	require.Len(t, repo.Archived, 1)
	assert.Equal(t, "old", repo.Archived[0].ID)
}

func TestUseCase_Dashboard(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	repo := testutil.NewAuditRepo()
	repo.Logs = []*entity.AuditLog{
		{CompanyID: "c1", UserID: "u1", UserName: "김철수", Action: entity.AuditCreate, CreatedAt: now.Add(-time.Hour)},
		{CompanyID: "c1", UserID: "u1", UserName: "김철수", Action: entity.AuditCreate, CreatedAt: now.Add(-48 * time.Hour)},
		{CompanyID: "c1", UserID: "u2", UserName: "이영희", Action: entity.AuditDelete, CreatedAt: now.Add(-2 * time.Hour)},
		{CompanyID: "c1", UserID: "u2", Action: entity.AuditDelete, CreatedAt: now.AddDate(0, 0, -60)},
	}
	uc := NewUseCase(repo, nil, nil)
	uc.now = func() time.Time { return now }

	d, err := uc.Dashboard(context.Background(), "c1", 0)
	require.NoError(t, err)
	assert.Equal(t, 30, d.Days)
	assert.EqualValues(t, 3, d.Total)
	require.Len(t, d.ByAction, 2)
	assert.Equal(t, dto.CountItem{Key: entity.AuditCreate, Label: "생성", Count: 2}, d.ByAction[0])
	assert.Len(t, d.ByDay, 2)
	require.Len(t, d.TopUsers, 2)
	assert.Equal(t, "u1", d.TopUsers[0].Key)
}

func TestUseCase_LogsRejectsBadDates(t *testing.T) {
	uc := NewUseCase(testutil.NewAuditRepo(), nil, nil)
	_, err := uc.Logs(context.Background(), "c1", dto.AuditLogRequest{From: "2024/01/01"})
	assert.Error(t, err)
}
