package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"learning-manager/internal/model"
)

// ErrLocalNotFound 로컬 파일이 아직 없음
var ErrLocalNotFound = errors.New("로컬 저장 파일이 없습니다")

const (
	csvTmpSuffix    = ".tmp"
	csvBackupSuffix = ".bak"
	csvFilePerm     = 0o644
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVStore 로컬 CSV 파일 저장소
type CSVStore struct {
	path string
}

// NewCSVStore 로컬 CSV 저장소 생성
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Name 로그용 저장소 이름
func (s *CSVStore) Name() string { return "local:" + s.path }

// Read 파일 전체를 읽는다. 첫 행이 헤더이다.
func (s *CSVStore) Read(_ context.Context) (*model.RawTable, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrLocalNotFound
		}
		return nil, fmt.Errorf("로컬 파일 읽기 실패: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("로컬 CSV 해석 실패: %w", err)
	}
	if len(rows) == 0 {
		return &model.RawTable{}, nil
	}

	return &model.RawTable{Header: rows[0], Rows: rows[1:]}, nil
}

// Write 표 전체로 파일을 덮어쓴다.
// 임시 파일에 먼저 쓰고 rename 하며 직전 파일은 .bak 으로 남긴다.
func (s *CSVStore) Write(_ context.Context, raw *model.RawTable) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("로컬 디렉터리 생성 실패: %w", err)
		}
	}

	tmp := s.path + csvTmpSuffix
	if err := writeCSVFile(tmp, raw); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := copyFile(s.path, s.path+csvBackupSuffix); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("백업 생성 실패: %w", err)
		}
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("로컬 파일 교체 실패: %w", err)
	}
	return nil
}

func writeCSVFile(path string, raw *model.RawTable) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, csvFilePerm)
	if err != nil {
		return fmt.Errorf("로컬 파일 생성 실패: %w", err)
	}

	bw := bufio.NewWriter(f)
	// 엑셀에서 한글이 깨지지 않도록 BOM 을 붙인다
	if _, err := bw.Write(utf8BOM); err != nil {
		f.Close()
		return fmt.Errorf("로컬 파일 쓰기 실패: %w", err)
	}

	w := csv.NewWriter(bw)
	if err := w.Write(raw.Header); err != nil {
		f.Close()
		return fmt.Errorf("로컬 파일 쓰기 실패: %w", err)
	}
	if err := w.WriteAll(raw.Rows); err != nil {
		f.Close()
		return fmt.Errorf("로컬 파일 쓰기 실패: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("로컬 파일 쓰기 실패: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("로컬 파일 동기화 실패: %w", err)
	}
	return f.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, csvFilePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
