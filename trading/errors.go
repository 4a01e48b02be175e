package trading

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("order not found")
	ErrSymbolNotFound  = errors.New("symbol not found")
	ErrUnavailable     = errors.New("api unavailable")
)
