package models

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Snapshot is a channel export: the channel summary plus its raw videos.
// The field names follow the dashboard's channel-stats payload.
type Snapshot struct {
	Channel ChannelInfo `json:"channelInfo"`
	Videos  []RawVideo  `json:"videoPerformance"`
}

// DecodeSnapshot reads either a full snapshot object or a bare array of
// raw videos. A bare array yields a snapshot with an empty channel.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("snapshot is empty")
	}

	var snap Snapshot
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &snap.Videos); err != nil {
			return nil, fmt.Errorf("failed to decode video list: %w", err)
		}
		return &snap, nil
	}

	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
