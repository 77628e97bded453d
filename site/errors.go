package site

import "errors"

var (
	ErrAssetNotFound = errors.New("site: asset not found")
	ErrNilFS         = errors.New("site: file system is nil")
)
