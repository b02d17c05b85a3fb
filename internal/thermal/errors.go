package thermal

import "codeberg.org/mutker/thermalogd/internal/errors"

const (
	ErrZoneUnavailable = errors.ErrorCode("thermal_zone_unavailable")
	ErrReadFailed      = errors.ErrorCode("thermal_read_failed")
	ErrParseFailed     = errors.ErrorCode("thermal_parse_failed")
)
