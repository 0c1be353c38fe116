package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"botwatch/internal/core"
	"botwatch/internal/dto"
	"botwatch/internal/telemetry"
	pathutil "botwatch/utils/path"
)

// DetectionLogRepository 以單一 CSV 檔保存偵測紀錄，只追加不修改
type DetectionLogRepository struct {
	trace *telemetry.Trace
	path  string
	mode  core.CSVReaderMode

	mu   sync.RWMutex
	file *os.File
}

func NewDetectionLogRepository(
	trace *telemetry.Trace,
	path string,
	mode core.CSVReaderMode,
) (*DetectionLogRepository, error) {
	if mode == "" {
		mode = core.CSVReaderStrict
	}
	if err := pathutil.EnsureParent(path); err != nil {
		return nil, fmt.Errorf("create csv directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv store: %w", err)
	}
	return &DetectionLogRepository{trace: trace, path: path, mode: mode, file: file}, nil
}

// Append 一筆一次 Write；檔案為空時連同標題列一起寫入，結尾缺換行時先補上
func (repository *DetectionLogRepository) Append(
	contextValue context.Context,
	record dto.DetectionRecord,
) (returnedError error) {
	_, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	repository.trace.ApplyTraceAttributes(span, core.TraceDetectionMeta{
		ClientIP:  record.IP,
		UserAgent: record.UserAgent,
		BotType:   string(record.BotType),
		Detected:  record.Detected,
		Store:     string(core.StoreCSV),
	})

	row, err := encodeRows(record.Values())
	if err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.file == nil {
		return fs.ErrClosed
	}
	info, err := repository.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv store: %w", err)
	}
	if size := info.Size(); size == 0 {
		header, err := encodeRows(columnTitles())
		if err != nil {
			return err
		}
		row = append(header, row...)
	} else {
		// 上次寫入中斷留下沒有換行的殘行時，先補換行，新資料列不接在殘行後面
		last := make([]byte, 1)
		if _, err := repository.file.ReadAt(last, size-1); err != nil {
			return fmt.Errorf("read csv tail: %w", err)
		}
		if last[0] != '\n' {
			row = append([]byte{'\n'}, row...)
		}
	}
	if _, err := repository.file.Write(row); err != nil {
		return fmt.Errorf("append csv row: %w", err)
	}
	return nil
}

// ReadAll 依寫入順序回傳；檔案不存在視為沒有紀錄
func (repository *DetectionLogRepository) ReadAll(contextValue context.Context) (rows []dto.DetectionRow, returnedError error) {
	_, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		repository.trace.ApplyTraceAttributes(span, core.TraceDetectionReadMeta{
			Store:   string(core.StoreCSV),
			Records: len(rows),
		})
		endSpan(returnedError)
	}()

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	file, err := os.Open(repository.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []dto.DetectionRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open csv store: %w", err)
	}
	defer file.Close()

	if repository.mode == core.CSVReaderSplit {
		return readSplit(file)
	}
	return readStrict(file)
}

// Count 資料列數（不含標題）
func (repository *DetectionLogRepository) Count(contextValue context.Context) (int, error) {
	rows, err := repository.ReadAll(contextValue)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (repository *DetectionLogRepository) Describe() string {
	return string(core.StoreCSV) + ":" + repository.path
}

func (repository *DetectionLogRepository) Close() error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.file == nil {
		return nil
	}
	err := repository.file.Close()
	repository.file = nil
	return err
}

func columnTitles() []string {
	titles := make([]string, len(core.DetectionColumns))
	for i, col := range core.DetectionColumns {
		titles[i] = string(col)
	}
	return titles
}

func encodeRows(records ...[]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("encode csv row: %w", err)
	}
	return buf.Bytes(), nil
}

func toRow(header, values []string) dto.DetectionRow {
	row := make(dto.DetectionRow, len(header))
	for i, col := range header {
		if i < len(values) {
			row[col] = values[i]
		} else {
			row[col] = ""
		}
	}
	return row
}

func readStrict(r io.Reader) ([]dto.DetectionRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []dto.DetectionRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	rows := []dto.DetectionRow{}
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, toRow(header, values))
	}
	return rows, nil
}

// readSplit 逐行以逗號切割，不處理引號；含逗號的欄位會錯位
func readSplit(r io.Reader) ([]dto.DetectionRow, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var header []string
	rows := []dto.DetectionRow{}
	first := true
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if first {
			header = strings.Split(line, ",")
			first = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, toRow(header, strings.Split(line, ",")))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan csv store: %w", err)
	}
	return rows, nil
}
