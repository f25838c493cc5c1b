package service

import "errors"

// 面向用户的错误，handler 层统一映射为 HTTP 状态码
var (
	ErrAccountExists      = errors.New("Username or email already exists")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrInvalidSession     = errors.New("Invalid or expired session")
	ErrMissingToken       = errors.New("No valid session token provided")
	ErrOAuthDisabled      = errors.New("GitHub login is not configured")
	ErrInvalidOAuthState  = errors.New("Invalid or expired login state")

	ErrUserNotFound = errors.New("User not found")
	ErrUserBanned   = errors.New("Your account has been banned")

	ErrCategoryNotFound = errors.New("Category not found")
	ErrInvalidCategory  = errors.New("Invalid category")
	ErrCategoryNotLeaf  = errors.New("Posts must be created in a subcategory")

	ErrPostNotFound   = errors.New("Post not found")
	ErrPostLocked     = errors.New("This post is locked")
	ErrPostPermission = errors.New("You can only modify your own posts")
	ErrTooManyImages  = errors.New("Too many images")
	ErrTooFrequent    = errors.New("You are posting too quickly, please wait a moment")

	ErrReplyNotFound   = errors.New("Reply not found")
	ErrParentNotFound  = errors.New("Parent reply not found")
	ErrReplyPermission = errors.New("You can only modify your own replies")

	ErrNotModerator       = errors.New("Moderator privileges required")
	ErrAdminRequired      = errors.New("Administrator privileges required")
	ErrCannotBanAdmin     = errors.New("Administrators cannot be banned")
	ErrCannotModerateSelf = errors.New("You cannot perform this action on yourself")
	ErrTargetIsAdmin      = errors.New("Administrators always have moderator privileges")
	ErrReasonRequired     = errors.New("A reason is required")

	ErrNoFiles          = errors.New("No files uploaded")
	ErrTooManyFiles     = errors.New("Too many files")
	ErrFileTooLarge     = errors.New("File is too large")
	ErrUnsupportedImage = errors.New("Only JPEG, PNG, GIF and WebP images are allowed")
)
