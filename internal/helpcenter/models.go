package helpcenter

// Article is the subset of help-center article fields the app uses.
type Article struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	HTMLURL   string `json:"html_url"`
	SectionID int64  `json:"section_id,omitempty"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Section belongs to exactly one Category.
type Section struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
}

type searchResponse struct {
	Results []Article `json:"results"`
}

type categoriesResponse struct {
	Categories []Category `json:"categories"`
}

type sectionsResponse struct {
	Sections []Section `json:"sections"`
}

type articlesResponse struct {
	Articles []Article `json:"articles"`
}
