package repository

import (
	"context"

	"go.uber.org/zap"

	"learning-manager/config"
)

// Repository 모든 저장소의 집합 진입점
type Repository struct {
	Record RecordStore
	// 📝 원격 저장소를 시트 여러 장으로 나누게 되면 여기에 추가
}

// NewRepository 설정에 따라 저장소를 조립한다.
// 스프레드시트 설정이 없거나 클라이언트 생성에 실패하면 로컬 파일만 사용한다.
func NewRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Repository {
	local := NewCSVStore(cfg.Store.LocalPath)

	var remote TableStore
	if cfg.Sheets.Enabled() {
		sheetsStore, err := NewSheetsStore(ctx, &cfg.Sheets)
		if err != nil {
			logger.Warn("스프레드시트 연결 실패, 로컬 파일만 사용합니다", zap.Error(err))
		} else {
			remote = sheetsStore
			logger.Info("스프레드시트 저장소 사용",
				zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID),
				zap.String("worksheet", cfg.Sheets.Worksheet),
			)
		}
	} else {
		logger.Warn("스프레드시트 설정이 없어 로컬 파일만 사용합니다", zap.String("path", cfg.Store.LocalPath))
	}

	return &Repository{
		Record: NewRecordStore(remote, local, logger),
	}
}
