package twitch

// Response shapes for the three GQL operations. Fields we never read are left
// out; the decoder drops them.

type PageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

type User struct {
	ID              string           `json:"id"`
	Login           string           `json:"login"`
	DisplayName     string           `json:"displayName"`
	ProfileImageURL string           `json:"profileImageURL"`
	Videos          *VideoConnection `json:"videos"`
}

type VideoConnection struct {
	Edges    []VideoEdge `json:"edges"`
	PageInfo PageInfo    `json:"pageInfo"`
}

type VideoEdge struct {
	Cursor string    `json:"cursor"`
	Node   VideoNode `json:"node"`
}

type VideoNode struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	LengthSeconds int    `json:"lengthSeconds"`
	CreatedAt     string `json:"createdAt"`
}

type Owner struct {
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
}

// Video is the metadata-plus-comment-page payload returned by the
// comments-by-offset operation.
type Video struct {
	LengthSeconds       int                `json:"lengthSeconds"`
	Title               string             `json:"title"`
	CreatedAt           string             `json:"createdAt"`
	PreviewThumbnailURL string             `json:"previewThumbnailURL"`
	Owner               *Owner             `json:"owner"`
	Comments            *CommentConnection `json:"comments"`
}

type CommentConnection struct {
	Edges    []CommentEdge `json:"edges"`
	PageInfo PageInfo      `json:"pageInfo"`
}

type CommentEdge struct {
	Cursor string      `json:"cursor"`
	Node   CommentNode `json:"node"`
}

type CommentNode struct {
	ID                   string     `json:"id"`
	CreatedAt            string     `json:"createdAt"`
	ContentOffsetSeconds int        `json:"contentOffsetSeconds"`
	Commenter            *Commenter `json:"commenter"`
	Message              Message    `json:"message"`
}

type Commenter struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
}

type Message struct {
	Fragments []Fragment `json:"fragments"`
}

type Fragment struct {
	Text string `json:"text"`
}

type gqlResponse struct {
	Data struct {
		User  *User  `json:"user"`
		Video *Video `json:"video"`
	} `json:"data"`
}
