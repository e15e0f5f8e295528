package services

import (
	"strings"
	"testing"
	"time"

	"github.com/axellelanca/itrules/internal/codec"
	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/axellelanca/itrules/internal/models"
	"github.com/axellelanca/itrules/internal/report"
	"github.com/axellelanca/itrules/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.Open(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repository.Migrate(db))
	return db
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestViolationService_AddLink(t *testing.T) {
	repo := repository.NewViolationRepository(newTestDB(t))
	svc := NewViolationService(repo)
	svc.now = fixedClock(time.Date(2024, 1, 5, 8, 0, 0, 0, time.FixedZone("IST", 19800)))

	rec, err := svc.AddLink("  https://www.instagram.com/p/abc  ", "fake clip")
	require.NoError(t, err)
	assert.Equal(t, "https://www.instagram.com/p/abc", rec.URL)
	assert.Equal(t, "Instagram", rec.Platform)
	assert.Equal(t, models.DefaultRuleViolation, rec.RuleViolation)
	assert.Equal(t, models.StatusNotTakenDown, rec.ActionStatus)
	assert.Equal(t, time.Date(2024, 1, 5, 2, 30, 0, 0, time.UTC), rec.Timestamp)
}

func TestViolationService_AddLink_Duplicate(t *testing.T) {
	svc := NewViolationService(repository.NewViolationRepository(newTestDB(t)))

	_, err := svc.AddLink("https://t.me/x", "")
	require.NoError(t, err)

	rec, err := svc.AddLink("https://t.me/x ", "again")
	assert.ErrorIs(t, err, customerrors.ErrDuplicateLink)
	require.NotNil(t, rec)
	assert.Equal(t, "Telegram", rec.Platform)
}

func TestViolationService_AddLink_Empty(t *testing.T) {
	svc := NewViolationService(repository.NewViolationRepository(newTestDB(t)))
	_, err := svc.AddLink("   ", "")
	assert.ErrorIs(t, err, customerrors.ErrEmptyURL)
}

func TestDownloadLogService(t *testing.T) {
	svc := NewDownloadLogService(repository.NewDownloadLogRepository(newTestDB(t)))
	svc.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.Log("2024-01-01T00:00:00.000Z", "2024-01-02T00:00:00.000Z", 4, " ops ")
	require.NoError(t, err)
	svc.now = fixedClock(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	_, err = svc.Log("a", "b", 1, "later")
	require.NoError(t, err)

	logs, err := svc.List()
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "later", logs[0].User)
	assert.Equal(t, "ops", logs[1].User)
	assert.Equal(t, 4, logs[1].Count)
}

func TestReportService_Export(t *testing.T) {
	db := newTestDB(t)
	vs := NewViolationService(repository.NewViolationRepository(db))
	vs.now = fixedClock(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	_, err := vs.AddLink("https://youtube.com/watch?v=1", "")
	require.NoError(t, err)

	rs := NewReportService(repository.NewViolationRepository(db), report.Options{})
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	payload, err := rs.Export(from, to, codec.PDF)
	require.NoError(t, err)
	raw, err := codec.DecodeLatin1(payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF-1."))

	_, err = rs.Export(to, to.AddDate(0, 1, 0), codec.DOCX)
	assert.ErrorIs(t, err, customerrors.ErrNoRecords)
}
