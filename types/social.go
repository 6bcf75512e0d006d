package types

// FeedResponse is the root of a Bluesky getFeed response. Only the fields the
// harvest pipeline consumes are declared.
type FeedResponse struct {
	Cursor string      `json:"cursor"`
	Feed   []FeedEntry `json:"feed"`
}

type FeedEntry struct {
	Post Post `json:"post"`
}

type Post struct {
	Author      Author `json:"author"`
	CID         string `json:"cid"`
	Embed       *Embed `json:"embed,omitempty"`
	IndexedAt   string `json:"indexedAt"`
	LikeCount   int    `json:"likeCount"`
	QuoteCount  int    `json:"quoteCount"`
	Record      Record `json:"record"`
	ReplyCount  int    `json:"replyCount"`
	RepostCount int    `json:"repostCount"`
	URI         string `json:"uri"`
}

type Author struct {
	Avatar      string `json:"avatar"`
	DID         string `json:"did"`
	DisplayName string `json:"displayName"`
	Handle      string `json:"handle"`
}

type Record struct {
	Type      string `json:"$type"`
	CreatedAt string `json:"createdAt"`
	Text      string `json:"text"`
}

// Embed carries post media; the pipeline only cares how many images a post
// attaches.
type Embed struct {
	Type   string       `json:"$type"`
	Images []ImageEmbed `json:"images,omitempty"`
}

type ImageEmbed struct {
	Alt      string `json:"alt"`
	Fullsize string `json:"fullsize"`
	Thumb    string `json:"thumb"`
}
