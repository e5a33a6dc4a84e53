package domain

import "errors"

// ErrUserNotFound signals a lookup for an email with no account record,
// typically a session cookie that outlived the stored user.
var ErrUserNotFound = errors.New("user not found")
