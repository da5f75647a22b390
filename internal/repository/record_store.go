package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"learning-manager/internal/model"
)

// ErrStoreUnavailable 원격과 로컬 저장소가 모두 실패함
var ErrStoreUnavailable = errors.New("원격 저장소와 로컬 파일 모두 사용할 수 없습니다")

// TableStore 표 전체를 읽고 덮어쓰는 저장 매체
type TableStore interface {
	Name() string
	Read(ctx context.Context) (*model.RawTable, error)
	Write(ctx context.Context, raw *model.RawTable) error
}

// LoadSource 표를 읽어온 곳
type LoadSource string

const (
	SourceRemote LoadSource = "remote"
	SourceLocal  LoadSource = "local"
	SourceEmpty  LoadSource = "empty" // 로컬 파일도 없어 빈 표로 시작
)

// LoadResult Load 결과
type LoadResult struct {
	Table     *model.Table
	Source    LoadSource
	RemoteErr error // 원격 읽기가 실패해 로컬로 대체된 경우의 원인
}

// SaveOutcome 저장이 끝난 곳
type SaveOutcome string

const (
	SavedRemote        SaveOutcome = "remote"
	SavedLocalFallback SaveOutcome = "local_fallback"
	SavedLocal         SaveOutcome = "local" // 원격 저장소가 설정되지 않음
)

// SaveResult Save 결과
type SaveResult struct {
	Outcome   SaveOutcome
	RemoteErr error
	Message   string
}

// RecordStore 원격 표 저장소를 우선 사용하고 실패 시 로컬 파일로 대체하는 저장소
//
// 설계 메모:
//   - 읽기/쓰기 모두 표 전체 단위. 부분 갱신은 없다
//   - 마지막으로 성공한 Save 가 영속 상태를 결정한다 (동시 편집 시 마지막 쓰기가 이김)
//   - 원격과 로컬이 모두 실패하면 ErrStoreUnavailable
type RecordStore interface {
	Load(ctx context.Context) (*LoadResult, error)
	Save(ctx context.Context, table *model.Table) (*SaveResult, error)
	RemoteEnabled() bool
}

type recordStore struct {
	remote TableStore // nil 이면 원격 저장소 미설정
	local  TableStore
	logger *zap.Logger
}

// NewRecordStore remote 가 nil 이면 로컬 파일만 사용한다.
func NewRecordStore(remote, local TableStore, logger *zap.Logger) RecordStore {
	return &recordStore{remote: remote, local: local, logger: logger}
}

func (s *recordStore) RemoteEnabled() bool { return s.remote != nil }

// ────────────────────── Load ──────────────────────

func (s *recordStore) Load(ctx context.Context) (*LoadResult, error) {
	var remoteErr error

	if s.remote != nil {
		raw, err := s.remote.Read(ctx)
		if err == nil {
			return &LoadResult{Table: model.FromRaw(raw), Source: SourceRemote}, nil
		}
		remoteErr = err
		s.logger.Warn("원격 저장소 읽기 실패, 로컬 파일로 대체",
			zap.String("store", s.remote.Name()),
			zap.Error(err),
		)
	}

	raw, err := s.local.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrLocalNotFound) {
			return &LoadResult{Table: model.NewTable(), Source: SourceEmpty, RemoteErr: remoteErr}, nil
		}
		s.logger.Error("로컬 파일 읽기 실패", zap.String("store", s.local.Name()), zap.Error(err))
		if remoteErr != nil {
			return nil, fmt.Errorf("%w: 원격=%v, 로컬=%w", ErrStoreUnavailable, remoteErr, err)
		}
		return nil, err
	}

	return &LoadResult{Table: model.FromRaw(raw), Source: SourceLocal, RemoteErr: remoteErr}, nil
}

// ────────────────────── Save ──────────────────────

func (s *recordStore) Save(ctx context.Context, table *model.Table) (*SaveResult, error) {
	// 호출 시점의 표를 고정해 두고 두 매체에 같은 내용을 쓴다
	raw := table.ToRaw()

	if s.remote == nil {
		if err := s.local.Write(ctx, raw); err != nil {
			s.logger.Error("로컬 파일 저장 실패", zap.String("store", s.local.Name()), zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return &SaveResult{Outcome: SavedLocal, Message: "로컬 파일에 저장되었습니다."}, nil
	}

	remoteErr := s.remote.Write(ctx, raw)
	if remoteErr == nil {
		return &SaveResult{Outcome: SavedRemote, Message: "스프레드시트에 저장되었습니다."}, nil
	}

	s.logger.Warn("원격 저장소 쓰기 실패, 로컬 파일로 대체",
		zap.String("store", s.remote.Name()),
		zap.Int("rows", len(raw.Rows)),
		zap.Error(remoteErr),
	)

	if err := s.local.Write(ctx, raw); err != nil {
		s.logger.Error("로컬 파일 저장도 실패", zap.String("store", s.local.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: 원격=%v, 로컬=%w", ErrStoreUnavailable, remoteErr, err)
	}

	return &SaveResult{
		Outcome:   SavedLocalFallback,
		RemoteErr: remoteErr,
		Message:   fmt.Sprintf("스프레드시트 저장에 실패하여 로컬 파일에 저장했습니다. (원인: %v)", remoteErr),
	}, nil
}
