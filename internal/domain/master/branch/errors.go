package branch

import "errors"

var (
	ErrBranchNotFound     = errors.New("branch not found")
	ErrBranchNameExists   = errors.New("branch with this name already exists")
	ErrBranchInUse        = errors.New("branch is still assigned to employees")
	ErrUnauthorizedAccess = errors.New("unauthorized access to branch")
)
