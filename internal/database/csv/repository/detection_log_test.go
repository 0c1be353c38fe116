package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"botwatch/internal/core"
	"botwatch/internal/dto"
	"botwatch/internal/telemetry"
)

func newTestRepository(t *testing.T, path string, mode core.CSVReaderMode) *DetectionLogRepository {
	t.Helper()
	trace, _, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatalf("NewTrace() error = %v", err)
	}
	repo, err := NewDetectionLogRepository(trace, path, mode)
	if err != nil {
		t.Fatalf("NewDetectionLogRepository() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleRecord(ip string, botType core.BotType) dto.DetectionRecord {
	return dto.DetectionRecord{
		IP:          ip,
		UserAgent:   "Mozilla/5.0 (compatible; GPTBot/1.0)",
		Timestamp:   "2025-01-01T00:00:00.000Z",
		URL:         "http://localhost:3000/",
		PageContent: core.DetectionPageContent,
		Referrer:    "",
		Keywords:    `["bot","detection","automation","` + strings.ToLower(string(botType)) + `"]`,
		BotType:     botType,
		Detected:    botType != core.BotNone,
	}
}

func TestAppendAndReadAllStrict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_detections.csv")
	repo := newTestRepository(t, path, core.CSVReaderStrict)
	ctx := context.Background()

	first := sampleRecord("1.2.3.4", core.BotChatGPT)
	second := sampleRecord("5.6.7.8", core.BotNone)
	for _, r := range []dto.DetectionRecord{first, second} {
		if err := repo.Append(ctx, r); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	rows, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	for i, want := range []dto.DetectionRecord{first, second} {
		for col, v := range want.Row() {
			if rows[i][col] != v {
				t.Errorf("rows[%d][%q] = %q, want %q", i, col, rows[i][col], v)
			}
		}
	}
	if rows[0]["Keywords"] != `["bot","detection","automation","chatgpt"]` {
		t.Errorf("keywords = %q", rows[0]["Keywords"])
	}
	if rows[1]["Detected"] != "false" {
		t.Errorf("detected = %q, want false", rows[1]["Detected"])
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count() = %d, %v; want 2, nil", n, err)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_detections.csv")
	repo := newTestRepository(t, path, core.CSVReaderStrict)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	rows, err := repo.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("rows = %#v, want empty slice", rows)
	}
}

func TestReadAllEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_detections.csv")
	repo := newTestRepository(t, path, core.CSVReaderStrict)

	rows, err := repo.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}

func TestConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_detections.csv")
	repo := newTestRepository(t, path, core.CSVReaderStrict)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := repo.Append(ctx, sampleRecord(fmt.Sprintf("10.0.0.%d", i), core.BotClaude)); err != nil {
				t.Errorf("Append() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	rows, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != n {
		t.Fatalf("len(rows) = %d, want %d", len(rows), n)
	}
	seen := make(map[string]bool, n)
	for _, row := range rows {
		if row["Bot Type"] != "Claude" {
			t.Errorf("torn row: %#v", row)
		}
		seen[row["IP"]] = true
	}
	if len(seen) != n {
		t.Errorf("distinct ips = %d, want %d", len(seen), n)
	}
}

func TestReopenWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_detections.csv")
	ctx := context.Background()

	repo := newTestRepository(t, path, core.CSVReaderStrict)
	if err := repo.Append(ctx, sampleRecord("1.1.1.1", core.BotGemini)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	_ = repo.Close()

	reopened := newTestRepository(t, path, core.CSVReaderStrict)
	if err := reopened.Append(ctx, sampleRecord("2.2.2.2", core.BotGemini)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.Count(string(raw), "IP,User Agent,Timestamp"); got != 1 {
		t.Errorf("header count = %d, want 1\n%s", got, raw)
	}
	rows, err := reopened.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 2 || rows[0]["IP"] != "1.1.1.1" || rows[1]["IP"] != "2.2.2.2" {
		t.Errorf("rows = %#v", rows)
	}
}

func TestSplitModeMisalignsQuotedCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_detections.csv")
	repo := newTestRepository(t, path, core.CSVReaderSplit)
	ctx := context.Background()

	if err := repo.Append(ctx, sampleRecord("1.2.3.4", core.BotChatGPT)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	rows, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	row := rows[0]
	if row["IP"] != "1.2.3.4" {
		t.Errorf("IP = %q", row["IP"])
	}
	if len(row) != len(core.DetectionColumns) {
		t.Errorf("len(row) = %d, want %d", len(row), len(core.DetectionColumns))
	}
	// keywords 內含逗號，切割後後續欄位位移
	if row["Keywords"] == `["bot","detection","automation","chatgpt"]` {
		t.Errorf("split mode should not decode quoted keywords: %q", row["Keywords"])
	}
	if row["Bot Type"] == "ChatGPT" {
		t.Errorf("split mode should misalign Bot Type, got %q", row["Bot Type"])
	}
}

func TestSplitModeSkipsBlankLinesAndPadsMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_detections.csv")
	content := "IP,User Agent,Timestamp\n1.1.1.1,curl\n\n   \n2.2.2.2,wget,2025\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo := newTestRepository(t, path, core.CSVReaderSplit)

	rows, err := repo.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["Timestamp"] != "" {
		t.Errorf("missing value = %q, want empty", rows[0]["Timestamp"])
	}
	if rows[1]["Timestamp"] != "2025" {
		t.Errorf("rows[1] = %#v", rows[1])
	}
}

func TestAppendAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_detections.csv")
	repo := newTestRepository(t, path, core.CSVReaderStrict)
	_ = repo.Close()
	if err := repo.Append(context.Background(), sampleRecord("1.1.1.1", core.BotNone)); err == nil {
		t.Error("Append() after Close should fail")
	}
}

func TestAppendAfterTornLineStartsNewRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_detections.csv")
	ctx := context.Background()

	repo := newTestRepository(t, path, core.CSVReaderStrict)
	if err := repo.Append(ctx, sampleRecord("1.1.1.1", core.BotClaude)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	_ = repo.Close()

	// 模擬上一個程序寫到一半就結束
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("3.3.3.3,curl/8"); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = f.Close()

	reopened := newTestRepository(t, path, core.CSVReaderStrict)
	if err := reopened.Append(ctx, sampleRecord("4.4.4.4", core.BotChatGPT)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), "3.3.3.3,curl/8\n4.4.4.4,") {
		t.Errorf("new row should start on its own line:\n%s", raw)
	}
	rows, err := reopened.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 3 || rows[2]["IP"] != "4.4.4.4" || rows[2]["Bot Type"] != "ChatGPT" {
		t.Errorf("rows = %#v", rows)
	}
}
