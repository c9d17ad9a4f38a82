package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Snapshot is a JSON document column that may be NULL. datatypes.JSON
// refuses to scan NULL, so a missing snapshot reads back as nil here.
type Snapshot datatypes.JSON

func (s Snapshot) Value() (driver.Value, error) {
	return datatypes.JSON(s).Value()
}

func (s *Snapshot) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	return (*datatypes.JSON)(s).Scan(value)
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return datatypes.JSON(s).MarshalJSON()
}

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = nil
		return nil
	}
	return (*datatypes.JSON)(s).UnmarshalJSON(b)
}

func (Snapshot) GormDataType() string {
	return "json"
}

func (Snapshot) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return datatypes.JSON{}.GormDBDataType(db, field)
}
