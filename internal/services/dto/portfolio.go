package dto

// SavePortfolioRequest is the body of both the create and the update calls.
// On create the route slug names the new portfolio; on update it names the
// existing one and Portfolio.Slug may rename it.
type SavePortfolioRequest struct {
	Publish   bool             `json:"publish"`
	Portfolio PortfolioPayload `json:"portfolio"`
}

// PortfolioPayload is the client's view of a portfolio. IDs and timestamps
// are ignored on input; responses are rebuilt from the stored rows.
type PortfolioPayload struct {
	Slug       string            `json:"slug" validate:"max=100,slug"`
	Title      string            `json:"title" validate:"required,max=100"`
	Subtitle   string            `json:"subtitle" validate:"max=500"`
	Author     string            `json:"author" validate:"max=100"`
	Categories []CategoryPayload `json:"categories" validate:"dive"`
}

type CategoryPayload struct {
	Title     string   `json:"title" validate:"required,max=100"`
	WorkSlugs []string `json:"work_slugs" validate:"dive,max=100,slug"`
}

// PortfolioResponse mirrors the stored portfolio row plus its categories.
type PortfolioResponse struct {
	ID          int32              `json:"id"`
	CreatedAt   int64              `json:"created_at"`
	PublishedAt *int64             `json:"published_at"`
	Slug        string             `json:"slug"`
	Title       string             `json:"title"`
	Subtitle    string             `json:"subtitle"`
	Author      string             `json:"author"`
	Categories  []CategoryResponse `json:"categories"`
}

type CategoryResponse struct {
	ID          int32    `json:"id"`
	PortfolioID int32    `json:"portfolio_id"`
	Title       string   `json:"title"`
	WorkSlugs   []string `json:"work_slugs"`
}
