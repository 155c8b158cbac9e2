package leave

import "errors"

var (
	ErrLeaveTypeNotFound            = errors.New("leave type not found")
	ErrLeaveTypeNameExists          = errors.New("leave type with this name already exists")
	ErrLeaveTypeInUse               = errors.New("leave type is referenced by leave requests")
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrLeaveRequestOverlap          = errors.New("leave request overlaps an existing request")
	ErrExceedsAllowedDays           = errors.New("leave request exceeds the days allowed for this leave type")
	ErrCannotReviewOwnRequest       = errors.New("you cannot review your own leave request")
)
