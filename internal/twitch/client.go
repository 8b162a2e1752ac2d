package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultGQLURL       = "https://gql.twitch.tv/gql"
	defaultIntegrityURL = "https://gql.twitch.tv/integrity"
	clientID            = "kimne78kx3ncx6brgo4mv6wki5h1ko"
	userAgent           = "Mozilla/5.0"
)

// Client talks to the Twitch GQL API. Each client carries its own device id,
// session id, cookie jar and integrity state, so one client corresponds to one
// logical scraping session. Clients are not safe for concurrent use.
type Client struct {
	GQLURL       string
	IntegrityURL string

	httpClient  *http.Client
	oauthHeader string
	deviceID    string
	sessionID   string

	integrityToken string
	kpsdkCT        string
	kpsdkR         string
}

// NewClient builds a session-scoped client. oauthToken may be empty; a bare
// token gets the "OAuth " prefix Twitch expects.
func NewClient(oauthToken string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		GQLURL:       defaultGQLURL,
		IntegrityURL: defaultIntegrityURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		oauthHeader: normalizeOAuth(oauthToken),
		deviceID:    strings.ReplaceAll(uuid.NewString(), "-", ""),
		sessionID:   uuid.NewString(),
	}
}

func normalizeOAuth(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "oauth ") {
		return token
	}
	return "OAuth " + token
}

// RefreshIntegrity performs the anti-automation round trip: an empty-payload
// POST whose response carries the integrity token in the body and two KPSDK
// values in the headers. Cookies set here stay in the jar for later GQL calls.
// On failure the integrity state is simply left as it was; callers log and
// carry on without it.
func (c *Client) RefreshIntegrity(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.IntegrityURL, strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.Header.Set("Client-Id", clientID)
	req.Header.Set("Device-Id", c.deviceID)
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Origin", "https://www.twitch.tv")
	req.Header.Set("Referer", "https://www.twitch.tv/")
	if c.oauthHeader != "" {
		req.Header.Set("Authorization", c.oauthHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("integrity request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode integrity response: %w", err)
	}

	c.integrityToken = body.Token
	c.kpsdkCT = resp.Header.Get("X-Kpsdk-Ct")
	c.kpsdkR = resp.Header.Get("X-Kpsdk-R")
	return nil
}

func (c *Client) query(ctx context.Context, operationName, query string, variables map[string]any) (*gqlResponse, error) {
	payload, err := json.Marshal(map[string]any{
		"operationName": operationName,
		"variables":     variables,
		"query":         strings.TrimSpace(query),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GQLURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-Id", clientID)
	req.Header.Set("Device-Id", c.deviceID)
	req.Header.Set("Client-Session-Id", c.sessionID)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	if c.oauthHeader != "" {
		req.Header.Set("Authorization", c.oauthHeader)
	}
	if c.integrityToken != "" {
		req.Header.Set("Client-Integrity", c.integrityToken)
	}
	if c.kpsdkCT != "" {
		req.Header.Set("X-Kpsdk-Ct", c.kpsdkCT)
	}
	if c.kpsdkR != "" {
		req.Header.Set("X-Kpsdk-R", c.kpsdkR)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gql request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode gql response: %w", err)
	}
	return &parsed, nil
}

// FetchUser looks up a streamer by login. Returns nil when Twitch has no such
// user.
func (c *Client) FetchUser(ctx context.Context, login string) (*User, error) {
	res, err := c.query(ctx, "GetUser", userQuery, map[string]any{"login": login})
	if err != nil {
		return nil, err
	}
	return res.Data.User, nil
}

// FetchUserVideos lists a streamer's most recent archived VODs.
func (c *Client) FetchUserVideos(ctx context.Context, login string, limit int) ([]VideoNode, error) {
	res, err := c.query(ctx, "GetUserVideos", userVideosQuery, map[string]any{
		"login":  login,
		"limit":  limit,
		"cursor": nil,
	})
	if err != nil {
		return nil, err
	}
	user := res.Data.User
	if user == nil || user.Videos == nil {
		return nil, nil
	}
	vods := make([]VideoNode, 0, len(user.Videos.Edges))
	for _, e := range user.Videos.Edges {
		vods = append(vods, e.Node)
	}
	return vods, nil
}

// FetchVideoComments fetches one page of comments starting at the given content
// offset. A nil Video with a nil error means the video does not exist (or the
// API declined to return it); callers treat that as a normal terminal state,
// not a failure.
func (c *Client) FetchVideoComments(ctx context.Context, videoID string, offset int) (*Video, error) {
	res, err := c.query(ctx, "VideoCommentsByOffsetOrCursor", videoCommentsQuery, map[string]any{
		"videoID":              videoID,
		"contentOffsetSeconds": offset,
		"cursor":               nil,
	})
	if err != nil {
		return nil, err
	}
	return res.Data.Video, nil
}
