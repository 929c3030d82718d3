package uploads

import "errors"

var (
	ErrFileTooLarge    = errors.New("file exceeds the 5 MB size limit")
	ErrUnsupportedType = errors.New("only image files are allowed (jpg, jpeg, png, gif, webp)")
)
