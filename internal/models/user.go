package models

type User struct {
	ID       int32  `gorm:"primaryKey;autoIncrement" json:"-"`
	Username string `gorm:"size:30;uniqueIndex;not null" json:"username"`

	// PasswordKeyBase64 is the PBKDF2-derived key. NULL means the account
	// is soft-disabled: it exists but cannot log in.
	PasswordKeyBase64 *string `gorm:"type:text" json:"-"`
	PBKDF2Iterations  int32   `gorm:"not null" json:"-"`
	SaltBase64        string  `gorm:"type:text;not null" json:"-"`
}

// Session is a bearer token bound to a user. CreatedAt is unix seconds; the
// sweeper deletes rows older than the configured expiration window.
type Session struct {
	UUID      string `gorm:"size:36;primaryKey" json:"session_id"`
	UserID    int32  `gorm:"not null;index" json:"-"`
	CreatedAt int64  `gorm:"not null" json:"-"`
}
