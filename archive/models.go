package archive

import (
	"gorm.io/gorm"
)

// Exchange is one archived turn. A failed turn keeps the user's text and the
// diagnostic that was hidden from the user.
type Exchange struct {
	gorm.Model
	SessionID string `gorm:"type:varchar(36);index"`
	Sender    string `gorm:"type:varchar(16)"`
	Text      string `gorm:"type:text"`
	Failure   string `gorm:"type:text"`
}
