package jenkins

import (
	"context"
)

// ShortQueueItem is the terse form of a queue item, as embedded in jobs
// and returned by build triggers.
type ShortQueueItem struct {
	Class string `json:"_class"`
	ID    int64  `json:"id"`
	URL   string `json:"url"`
}

// GetFull fetches the complete queue item the short form links to. The
// link is checked against the path grammar before any request is issued.
func (s ShortQueueItem) GetFull(ctx context.Context, c *Client) (QueueItem, error) {
	path := c.ParsePath(s.URL)

	item := QueueItem{}

	if _, ok := path.(QueueItemPath); !ok {
		return item, &InvalidURLError{URL: s.URL, Expected: ExpectQueueItem}
	}

	if err := c.get(ctx, path, &item); err != nil {
		return item, err
	}

	return item, nil
}

// QueueItem is a single entry of the build queue. Executable is set once
// the item left the queue and points to the build it became.
type QueueItem struct {
	Class        string      `json:"_class"`
	ID           int64       `json:"id"`
	URL          string      `json:"url"`
	Why          *string     `json:"why"`
	Blocked      bool        `json:"blocked"`
	Buildable    bool        `json:"buildable"`
	Stuck        bool        `json:"stuck"`
	Cancelled    bool        `json:"cancelled"`
	InQueueSince int64       `json:"inQueueSince"`
	Task         ShortJob    `json:"task"`
	Actions      []Action    `json:"actions"`
	Executable   *ShortBuild `json:"executable"`
}

// GetBuild fetches the build the queue item turned into. It fails with
// an invalid URL error while the item is still waiting.
func (q QueueItem) GetBuild(ctx context.Context, c *Client) (*Build, error) {
	if q.Executable == nil {
		return nil, &InvalidURLError{URL: q.URL, Expected: ExpectBuild}
	}

	return q.Executable.GetFull(ctx, c)
}

// Queue is the build queue of the controller.
type Queue struct {
	Class string      `json:"_class"`
	Items []QueueItem `json:"items"`
}
