package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmailExists          = errors.New("email already registered")
	ErrProfileExists        = errors.New("user already has an employee profile")
	ErrBranchNotInClient    = errors.New("branch does not belong to this client")
	ErrShiftNotInClient     = errors.New("shift does not belong to this client")
	ErrCannotDeleteYourself = errors.New("you cannot delete your own employee profile")
)
