package cli

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/axellelanca/itrules/internal/api"
	"github.com/axellelanca/itrules/internal/config"
	"github.com/axellelanca/itrules/internal/report"
	"github.com/axellelanca/itrules/internal/repository"
	"github.com/axellelanca/itrules/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.Open(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repository.Migrate(db))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	violations := repository.NewViolationRepository(db)
	router := gin.New()
	api.SetupRoutes(router, &api.Handlers{
		Violations: services.NewViolationService(violations),
		Logs:       services.NewDownloadLogService(repository.NewDownloadLogRepository(db)),
		Reports:    services.NewReportService(violations, report.Options{}),
		Logger:     logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSession(t *testing.T, baseURL, dir string) (*session, *bytes.Buffer) {
	t.Helper()
	logrus.SetOutput(io.Discard)
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	cfg, err := config.Load(viper.New(), t.TempDir())
	require.NoError(t, err)
	cfg.Client.BaseURL = baseURL
	cfg.Download.Dir = dir
	cfg.App.Timezone = "UTC"

	var out bytes.Buffer
	s, err := newSession(cfg, &out, &out)
	require.NoError(t, err)
	return s, &out
}

func TestConsole_FullSession(t *testing.T) {
	srv := newBackend(t)
	dir := t.TempDir()
	s, out := newTestSession(t, srv.URL, dir)

	script := strings.Join([]string{
		"url https://x.com/someone/status/1",
		"comments manipulated video",
		"add",
		"add",
		"from 2000-01-01T00:00",
		"to 2100-01-01T00:00",
		"fetch",
		"export docx",
		"count 3",
		"user analyst",
		"log",
		"view logs",
		"quit",
	}, "\n")

	require.NoError(t, runConsole(context.Background(), s, strings.NewReader(script)))

	text := out.String()
	assert.Contains(t, text, "Platform: Twitter")
	assert.Contains(t, text, "[success] Link added successfully")
	assert.Contains(t, text, "! set a url first")
	assert.Contains(t, text, "[success] Fetched 1 records")
	assert.Contains(t, text, "https://x.com/someone/status/1")
	assert.Contains(t, text, "[success] File downloaded successfully")
	assert.Contains(t, text, "[success] Download log saved.")
	assert.Contains(t, text, "analyst")

	_, err := os.Stat(filepath.Join(dir, "violations_2000-01-01T00:00_2100-01-01T00:00.docx"))
	assert.NoError(t, err)

	st := s.ctrl.Snapshot()
	require.Len(t, st.Logs, 1)
	assert.Equal(t, 3, st.Logs[0].Count)
}

func TestConsole_RangeErrorsAndUsage(t *testing.T) {
	srv := newBackend(t)
	s, out := newTestSession(t, srv.URL, t.TempDir())

	script := "fetch\nexport pdf\nlog\nexport xls\nview nowhere\nfrobnicate\n"
	require.NoError(t, runConsole(context.Background(), s, strings.NewReader(script)))

	text := out.String()
	assert.Contains(t, text, "[error] Please select both From and To dates.")
	assert.Contains(t, text, "[error] Please select From and To dates for export.")
	assert.Contains(t, text, "[error] Please choose date range to log.")
	assert.Contains(t, text, `unknown view "nowhere"`)
	assert.Contains(t, text, `unknown command "frobnicate"`)
	assert.Equal(t, "add", string(s.ctrl.Snapshot().View))
}

func TestConsole_ServiceDown(t *testing.T) {
	srv := newBackend(t)
	srv.Close()
	s, out := newTestSession(t, srv.URL, t.TempDir())

	script := "url https://reddit.com/r/x\nadd\nshow\n"
	require.NoError(t, runConsole(context.Background(), s, strings.NewReader(script)))

	text := out.String()
	assert.Contains(t, text, "[error] ")
	assert.Equal(t, "https://reddit.com/r/x", s.ctrl.Snapshot().URL)
}
