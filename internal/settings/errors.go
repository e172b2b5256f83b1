package settings

import "errors"

var (
	// ErrEmptyFilter indicates a filter operation was invoked with an
	// empty filter string.
	ErrEmptyFilter = errors.New("settings: empty filter")

	// ErrSettingNotFound indicates the requested key is not present in
	// the document or catalog being queried.
	ErrSettingNotFound = errors.New("settings: setting not found")
)
