package xmljson

import "errors"

// ErrUnknownFormat is returned when the format of an input cannot be
// detected.
var ErrUnknownFormat = errors.New("xmljson: unable to detect input format")
