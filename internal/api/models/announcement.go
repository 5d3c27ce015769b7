package models

// Announcement represents a portal-wide announcement.
type Announcement struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Pinned    bool      `json:"pinned"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// AnnouncementCreateRequest is the request body for posting an announcement.
type AnnouncementCreateRequest struct {
	Title  string `json:"title" validate:"required,max=120"`
	Body   string `json:"body" validate:"required,max=2000"`
	Pinned bool   `json:"pinned,omitempty"`
}

// PagedAnnouncements represents a paginated list of announcements.
type PagedAnnouncements struct {
	Items []Announcement    `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
