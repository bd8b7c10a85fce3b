package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"channel-insights/internal/models"
	"channel-insights/shared/config"
	"channel-insights/shared/logging"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const batchSize = 50

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrNoUploads       = errors.New("channel has no uploads playlist")
)

// Client reads public channel and video statistics from the Data API.
type Client struct {
	service *youtube.Service
}

// NewClient authenticates with the API key when one is configured and with
// the stored OAuth token otherwise. Extra options are appended last.
func NewClient(ctx context.Context, cfg *config.YouTubeConfig, opts ...option.ClientOption) (*Client, error) {
	var auth []option.ClientOption
	if cfg.APIKey != "" {
		auth = append(auth, option.WithAPIKey(cfg.APIKey))
	} else {
		oauthConfig := newOAuthConfig(cfg.ClientID, cfg.ClientSecret)
		token, err := getToken(ctx, oauthConfig, cfg.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to get OAuth token: %w", err)
		}
		source := &tokenSaver{config: oauthConfig, token: token, tokenFile: cfg.TokenFile}
		auth = append(auth, option.WithHTTPClient(oauth2.NewClient(ctx, source)))
	}

	service, err := youtube.NewService(ctx, append(auth, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

func (c *Client) channel(ctx context.Context, channelID string) (*youtube.Channel, error) {
	resp, err := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	return resp.Items[0], nil
}

func (c *Client) GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error) {
	ch, err := c.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	info := &models.ChannelInfo{ID: ch.Id}
	if ch.Snippet != nil {
		info.Title = ch.Snippet.Title
		info.Description = ch.Snippet.Description
		info.Thumbnail = thumbnailURL(ch.Snippet.Thumbnails)
	}
	if ch.Statistics != nil {
		info.Subscribers = models.Count(ch.Statistics.SubscriberCount)
		info.ViewCount = models.Count(ch.Statistics.ViewCount)
		info.VideoCount = models.Count(ch.Statistics.VideoCount)
	}
	return info, nil
}

// GetChannelVideos returns up to maxVideos of the channel's most recent
// uploads with their statistics.
func (c *Client) GetChannelVideos(ctx context.Context, channelID string, maxVideos int) ([]models.RawVideo, error) {
	ch, err := c.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch.ContentDetails == nil || ch.ContentDetails.RelatedPlaylists == nil || ch.ContentDetails.RelatedPlaylists.Uploads == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoUploads, channelID)
	}

	ids, err := c.uploadIDs(ctx, ch.ContentDetails.RelatedPlaylists.Uploads, maxVideos)
	if err != nil {
		return nil, err
	}
	logging.Debug().Str("channel", channelID).Int("uploads", len(ids)).Msg("Resolved upload IDs")

	videos := make([]models.RawVideo, 0, len(ids))
	for i := 0; i < len(ids); i += batchSize {
		end := min(i+batchSize, len(ids))
		resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(strings.Join(ids[i:end], ",")).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get video details: %w", err)
		}
		for _, item := range resp.Items {
			videos = append(videos, toRawVideo(item))
		}
	}

	logging.Info().Str("channel", channelID).Int("videos", len(videos)).Msg("Fetched channel videos")
	return videos, nil
}

func (c *Client) uploadIDs(ctx context.Context, playlistID string, maxVideos int) ([]string, error) {
	var ids []string
	pageToken := ""
	for len(ids) < maxVideos {
		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(int64(min(batchSize, maxVideos-len(ids)))).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list uploads: %w", err)
		}
		for _, item := range resp.Items {
			if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
				ids = append(ids, item.ContentDetails.VideoId)
			}
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	if len(ids) > maxVideos {
		ids = ids[:maxVideos]
	}
	return ids, nil
}

func toRawVideo(item *youtube.Video) models.RawVideo {
	v := models.RawVideo{ID: item.Id}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.Description = item.Snippet.Description
		v.PublishedAt = item.Snippet.PublishedAt
		v.Tags = item.Snippet.Tags
		v.Thumbnail = thumbnailURL(item.Snippet.Thumbnails)
	}
	if item.ContentDetails != nil {
		v.Duration = formatDuration(parseDurationSeconds(item.ContentDetails.Duration))
	}
	if item.Statistics != nil {
		v.ViewCount = models.Count(item.Statistics.ViewCount)
		v.LikeCount = models.Count(item.Statistics.LikeCount)
		v.CommentCount = models.Count(item.Statistics.CommentCount)
	}
	return v
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseDurationSeconds converts an ISO 8601 duration such as PT1H2M3S.
func parseDurationSeconds(duration string) int {
	matches := isoDuration.FindStringSubmatch(duration)
	if matches == nil {
		return 0
	}

	total := 0
	for i, unit := range []int{3600, 60, 1} {
		if n, err := strconv.Atoi(matches[i+1]); err == nil {
			total += n * unit
		}
	}
	return total
}

// formatDuration renders seconds as m:ss, or h:mm:ss from an hour up.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
