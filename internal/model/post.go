package model

// Post is one downloadable unit: a video upload or a series episode.
// ID is the opaque platform key (a bvid or an ep_id); Title is informational
// and may be empty when the identifier was supplied directly by the caller.
type Post struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

// IDs returns the identifiers of posts, preserving order.
func IDs(posts []Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
