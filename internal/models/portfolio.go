package models

// Portfolio timestamps are unix seconds. PublishedAt NULL means private:
// only owners can read it, and works it lists get no public visibility
// through it.
type Portfolio struct {
	ID          int32  `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   int64  `gorm:"not null" json:"created_at"`
	PublishedAt *int64 `json:"published_at"`
	Slug        string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Subtitle    string `gorm:"size:500;not null" json:"subtitle"`
	Author      string `gorm:"size:100;not null" json:"author"`
}

// PortfolioRight grants ownership. Exactly one row is inserted per portfolio
// at creation time.
type PortfolioRight struct {
	PortfolioID int32 `gorm:"primaryKey" json:"portfolio_id"`
	UserID      int32 `gorm:"primaryKey;index" json:"user_id"`
}

// PortfolioCategory rows are replaced wholesale on every portfolio write;
// their IDs are not stable across updates.
type PortfolioCategory struct {
	ID          int32  `gorm:"primaryKey;autoIncrement" json:"id"`
	PortfolioID int32  `gorm:"not null;index" json:"portfolio_id"`
	Title       string `gorm:"size:100;not null" json:"title"`
}

func (PortfolioCategory) TableName() string {
	return "categories"
}

// WorkInCategory is an unordered membership set.
type WorkInCategory struct {
	CategoryID int32 `gorm:"primaryKey" json:"category_id"`
	WorkID     int32 `gorm:"primaryKey" json:"work_id"`
}

func (WorkInCategory) TableName() string {
	return "works_in_categories"
}
