package domain

import "testing"

func TestArticleStageGates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		article     Article
		needsPost   bool
		needsImage  bool
		needsTweet  bool
		doneAlready bool
	}{
		{
			name:      "fresh article",
			article:   Article{URL: "http://a", Title: "T", Content: "C"},
			needsPost: true,
		},
		{
			name:       "post generated",
			article:    Article{URL: "http://a", Post: "p"},
			needsImage: true,
		},
		{
			name:       "image generated",
			article:    Article{URL: "http://a", Post: "p", ImageURLs: []string{"https://i"}},
			needsTweet: true,
		},
		{
			name:        "published",
			article:     Article{URL: "http://a", Post: "p", ImageURLs: []string{"https://i"}, TweetID: "1"},
			doneAlready: true,
		},
	}

	for _, tc := range cases {
		if got := tc.article.NeedsPost(); got != tc.needsPost {
			t.Fatalf("%s: NeedsPost = %v", tc.name, got)
		}
		if got := tc.article.NeedsImage(); got != tc.needsImage {
			t.Fatalf("%s: NeedsImage = %v", tc.name, got)
		}
		if got := tc.article.NeedsPublish(); got != tc.needsTweet {
			t.Fatalf("%s: NeedsPublish = %v", tc.name, got)
		}
		if got := tc.article.Done(); got != tc.doneAlready {
			t.Fatalf("%s: Done = %v", tc.name, got)
		}
	}
}
