package maafocus

import (
	"errors"
	"sync"

	"github.com/MaaXYZ/maa-framework-go/v4"
)

const nodeName = "_GAME_VIDEO_FOCUS_"

// ErrNilContext indicates the provided context is nil.
var ErrNilContext = errors.New("context is nil")

// NodeActionStarting sets the focus to the node action starting event
// content is the content to be displayed on the UI
func NodeActionStarting(ctx *maa.Context, content string) error {
	if ctx == nil {
		return ErrNilContext
	}

	pp := maa.NewPipeline()
	pp.AddNode(maa.NewNode(nodeName,
		maa.WithFocus(map[string]any{
			maa.EventNodeAction.Starting(): content,
		}),
		maa.WithPreDelay(0),
		maa.WithPostDelay(0),
	))
	_, err := ctx.RunTask(nodeName, pp)
	return err
}

// Changes posts focus content only when it differs from the last posted content,
// so a hero summary shows up once per change instead of once per frame.
type Changes struct {
	mu   sync.Mutex
	last string
	post func(ctx *maa.Context, content string) error
}

// NewChanges returns a Changes that posts with NodeActionStarting.
func NewChanges() *Changes {
	return &Changes{post: NodeActionStarting}
}

// Post shows content unless it equals the last content shown. It reports whether content was posted.
// Failed posts are not remembered.
func (c *Changes) Post(ctx *maa.Context, content string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if content == c.last {
		return false, nil
	}
	if err := c.post(ctx, content); err != nil {
		return false, err
	}
	c.last = content
	return true, nil
}

// Reset forgets the last content so the next Post always shows.
func (c *Changes) Reset() {
	c.mu.Lock()
	c.last = ""
	c.mu.Unlock()
}
