package domain

// Article is the unit of work for the publishing pipeline. URL is the
// unique key; Title and Content are immutable inputs. Pipeline progress
// is encoded purely by field presence: Post, ImageURLs and TweetID are
// filled in that order and never cleared.
type Article struct {
	URL     string
	Title   string
	Content string

	Post      string
	ImageURLs []string
	TweetID   string
}

// NeedsPost reports whether promotional text still has to be generated.
func (a Article) NeedsPost() bool {
	return a.Post == ""
}

// NeedsImage reports whether a companion image still has to be generated.
func (a Article) NeedsImage() bool {
	return a.Post != "" && len(a.ImageURLs) == 0
}

// NeedsPublish reports whether the article is ready to be posted but has
// not been yet. Publishing requires both prior stages to be complete.
func (a Article) NeedsPublish() bool {
	return a.Post != "" && len(a.ImageURLs) > 0 && a.TweetID == ""
}

// Done reports whether the article reached its terminal state.
func (a Article) Done() bool {
	return a.TweetID != ""
}
