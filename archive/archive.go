package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/EPecherkin/innergy-chat/deps"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Archive is a log of chat exchanges for support review.
// Live sessions only write to it; Session is read by the "archive" command.
type Archive struct {
	dbc *gorm.DB
}

func Open(dsn string, lgr *slog.Logger) (*Archive, error) {
	dbc, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newDBLogger(lgr)})
	if err != nil {
		return nil, fmt.Errorf("connecting to archive: %w", errors.WithStack(err))
	}

	if err := dbc.AutoMigrate(&Exchange{}); err != nil {
		return nil, fmt.Errorf("auto-migrating archive: %w", errors.WithStack(err))
	}

	return &Archive{dbc: dbc}, nil
}

func (archive *Archive) Record(ctx context.Context, entry deps.Entry) error {
	exchange := Exchange{
		SessionID: entry.SessionID,
		Sender:    entry.Sender,
		Text:      entry.Text,
		Failure:   entry.Failure,
	}
	if err := archive.dbc.WithContext(ctx).Create(&exchange).Error; err != nil {
		return fmt.Errorf("saving exchange: %w", errors.WithStack(err))
	}
	return nil
}

// Session lists a session's archived exchanges in the order they were written.
func (archive *Archive) Session(ctx context.Context, sessionID string) ([]Exchange, error) {
	var exchanges []Exchange
	err := archive.dbc.WithContext(ctx).Where("session_id = ?", sessionID).Order("id asc").Find(&exchanges).Error
	if err != nil {
		return nil, fmt.Errorf("loading exchanges: %w", errors.WithStack(err))
	}
	return exchanges, nil
}

func (archive *Archive) Close() error {
	sqlDB, err := archive.dbc.DB()
	if err != nil {
		return fmt.Errorf("getting archive connection: %w", errors.WithStack(err))
	}
	return sqlDB.Close()
}
