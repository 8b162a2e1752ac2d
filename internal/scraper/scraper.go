// Package scraper walks a VOD's comment stream to completion and persists what
// it finds. The upstream API pages by content offset; the engine re-queries by
// offset (never by cursor) so an interrupted run can simply start over and rely
// on the idempotent write path to skip what it already has.
package scraper

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"vodscraper/internal/db"
	"vodscraper/internal/mirror"
	"vodscraper/internal/models"
	"vodscraper/internal/twitch"
)

// Progress is one ingestion progress event. Percent reflects time-offset
// coverage of the VOD, not comment count, and is clamped to 99 until the run
// terminates; the terminal event always reports 100.
type Progress struct {
	Page          int    `json:"page"`
	Offset        int    `json:"offset"`
	TotalSeconds  int    `json:"total_seconds"`
	TotalComments int    `json:"total_comments"`
	Percent       int    `json:"percent"`
	VideoTitle    string `json:"video_title"`
	Done          bool   `json:"done,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Mirror payload rows, keyed the way the external project's tables are.
type videoRow struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	StreamerLogin       string `json:"streamer_login"`
	StreamerDisplayName string `json:"streamer_display_name"`
	LengthSeconds       int    `json:"length_seconds"`
	CreatedAt           string `json:"created_at"`
	ThumbnailURL        string `json:"thumbnail_url"`
}

type commentRow struct {
	ID                   string `json:"id"`
	VideoID              string `json:"video_id"`
	CommenterLogin       string `json:"commenter_login"`
	CommenterDisplayName string `json:"commenter_display_name"`
	ContentOffsetSeconds int    `json:"content_offset_seconds"`
	Message              string `json:"message"`
	CreatedAt            string `json:"created_at"`
}

// Service is one scraping session: it owns a session-scoped Twitch client and
// is created at task start and discarded at task end.
type Service struct {
	client  *twitch.Client
	mirror  *mirror.Client
	limiter *rate.Limiter
}

// New builds a session. mirrorClient may be nil to disable the external mirror.
func New(client *twitch.Client, mirrorClient *mirror.Client) *Service {
	return &Service{
		client: client,
		mirror: mirrorClient,
		// Courtesy pacing between comment pages; Twitch has no published
		// limit for this endpoint.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
}

// ScrapeVideo ingests every comment page of a VOD. limitPages of 0 means no
// limit. onProgress may be nil; when set it receives one event per written page
// and a terminal done event on every normal exit path. Partial results stay
// written on error: the video upsert and comment insert-ignore make a re-run
// safe.
func (s *Service) ScrapeVideo(ctx context.Context, videoID string, limitPages int, onProgress func(Progress)) error {
	log.Printf("Scraping video %s...", videoID)
	if err := s.client.RefreshIntegrity(ctx); err != nil {
		// Proceed without attestation; the API may still answer.
		log.Printf("Integrity refresh failed for video %s: %v", videoID, err)
	}

	offset := 0
	page := 0
	seenIDs := make(map[string]bool)
	totalComments := 0
	lengthSeconds := 0
	videoTitle := ""
	haveVideo := false

	for {
		if limitPages > 0 && page >= limitPages {
			break
		}

		video, err := s.client.FetchVideoComments(ctx, videoID, offset)
		if err != nil {
			return fmt.Errorf("failed to fetch comments for video %s at offset %d: %w", videoID, offset, err)
		}
		if video == nil {
			log.Printf("Video %s not found or not available", videoID)
			break
		}

		if !haveVideo {
			lengthSeconds = video.LengthSeconds
			videoTitle = video.Title
			if err := s.saveVideo(ctx, videoID, video); err != nil {
				return err
			}
			haveVideo = true
		}

		var edges []twitch.CommentEdge
		hasNextPage := false
		if video.Comments != nil {
			edges = video.Comments.Edges
			hasNextPage = video.Comments.PageInfo.HasNextPage
		}
		if len(edges) == 0 {
			break
		}

		batch := make([]models.Comment, 0, len(edges))
		mirrorBatch := make([]commentRow, 0, len(edges))
		maxOffsetSeen := offset

		for _, edge := range edges {
			node := edge.Node
			if node.ID == "" || seenIDs[node.ID] {
				continue
			}
			seenIDs[node.ID] = true

			if node.ContentOffsetSeconds > maxOffsetSeen {
				maxOffsetSeen = node.ContentOffsetSeconds
			}

			login := ""
			displayName := "Unknown"
			if node.Commenter != nil {
				login = node.Commenter.Login
				if node.Commenter.DisplayName != "" {
					displayName = node.Commenter.DisplayName
				}
			}

			message := ""
			for _, f := range node.Message.Fragments {
				message += f.Text
			}

			batch = append(batch, models.Comment{
				ID:                   node.ID,
				VideoID:              videoID,
				CommenterLogin:       login,
				CommenterDisplayName: displayName,
				ContentOffsetSeconds: node.ContentOffsetSeconds,
				Message:              message,
				CreatedAt:            parseTimestamp(node.CreatedAt),
			})
			mirrorBatch = append(mirrorBatch, commentRow{
				ID:                   node.ID,
				VideoID:              videoID,
				CommenterLogin:       login,
				CommenterDisplayName: displayName,
				ContentOffsetSeconds: node.ContentOffsetSeconds,
				Message:              message,
				CreatedAt:            node.CreatedAt,
			})
		}

		if len(batch) > 0 {
			if s.mirror != nil {
				if err := s.mirror.Upsert(ctx, "comments", mirrorBatch); err != nil {
					return fmt.Errorf("failed to mirror comment batch: %w", err)
				}
			}
			n, err := db.InsertComments(batch)
			if err != nil {
				return err
			}
			totalComments += n
			log.Printf("Wrote batch of %d comments for video %s, offset %d", n, videoID, maxOffsetSeen)
		}

		if onProgress != nil && lengthSeconds > 0 {
			pct := maxOffsetSeen * 100 / lengthSeconds
			if pct > 99 {
				pct = 99
			}
			onProgress(Progress{
				Page:          page + 1,
				Offset:        maxOffsetSeen,
				TotalSeconds:  lengthSeconds,
				TotalComments: totalComments,
				Percent:       pct,
				VideoTitle:    videoTitle,
			})
		}

		if !hasNextPage {
			break
		}

		offset = maxOffsetSeen + 1
		page++
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	if onProgress != nil {
		onProgress(Progress{
			Page:          page,
			Offset:        offset,
			TotalSeconds:  lengthSeconds,
			TotalComments: totalComments,
			Percent:       100,
			VideoTitle:    videoTitle,
			Done:          true,
		})
	}
	return nil
}

// saveVideo upserts the video row on the first successful page, linking it to a
// locally known streamer when the owner login matches one case-insensitively.
func (s *Service) saveVideo(ctx context.Context, videoID string, video *twitch.Video) error {
	ownerLogin := ""
	ownerDisplayName := ""
	if video.Owner != nil {
		ownerLogin = video.Owner.Login
		ownerDisplayName = video.Owner.DisplayName
	}

	if s.mirror != nil {
		row := videoRow{
			ID:                  videoID,
			Title:               video.Title,
			StreamerLogin:       ownerLogin,
			StreamerDisplayName: ownerDisplayName,
			LengthSeconds:       video.LengthSeconds,
			CreatedAt:           video.CreatedAt,
			ThumbnailURL:        video.PreviewThumbnailURL,
		}
		if err := s.mirror.Upsert(ctx, "videos", []videoRow{row}); err != nil {
			return fmt.Errorf("failed to mirror video %s: %w", videoID, err)
		}
	}

	var streamerID *string
	if ownerLogin != "" {
		streamer, err := db.GetStreamerByLogin(ownerLogin)
		if err != nil {
			return fmt.Errorf("failed to look up streamer %s: %w", ownerLogin, err)
		}
		if streamer != nil {
			streamerID = &streamer.ID
		}
	}

	length := video.LengthSeconds
	v := models.Video{
		ID:                  videoID,
		Title:               &video.Title,
		StreamerID:          streamerID,
		StreamerLogin:       &ownerLogin,
		StreamerDisplayName: &ownerDisplayName,
		LengthSeconds:       &length,
		CreatedAt:           parseTimestamp(video.CreatedAt),
		ThumbnailURL:        &video.PreviewThumbnailURL,
	}
	if err := db.UpsertVideo(v); err != nil {
		return fmt.Errorf("failed to upsert video %s: %w", videoID, err)
	}
	return nil
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
