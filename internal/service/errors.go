package service

import "errors"

// Sentinel errors surfaced to handlers. Auth and user-directory failures are
// always raised to the caller; plain collection CRUD on a missing id degrades
// to a no-op instead (the UI is the sole writer, such races are not expected).
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSelfDeletion       = errors.New("cannot delete your own account")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role: must be admin, manager or collaborator")

	ErrBudgetNotFound         = errors.New("budget not found")
	ErrInvalidStatus          = errors.New("invalid budget status")
	ErrForbidden              = errors.New("insufficient permissions")
	ErrApprovedBudget         = errors.New("approved budgets require an admin or a deletion request")
	ErrBudgetNotApproved      = errors.New("budget is not approved; delete it directly")
	ErrEmptyReason            = errors.New("deletion request requires a reason")
	ErrDeletionRequestPending = errors.New("a deletion request is already pending")
	ErrNoDeletionRequest      = errors.New("no pending deletion request")
	ErrInvalidResolveAction   = errors.New("action must be approve or deny")

	ErrMaterialNotFound = errors.New("material not found")
	ErrDuplicateCodigo  = errors.New("material code already in use")
	ErrInvalidUnit      = errors.New("invalid material unit")
	ErrInvalidAmount    = errors.New("invalid monetary amount")

	ErrInvalidDate       = errors.New("invalid date: expected YYYY-MM-DD")
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")
)
