package maafocus

import (
	"errors"
	"testing"

	"github.com/MaaXYZ/maa-framework-go/v4"
)

func TestNodeActionStartingNilContext(t *testing.T) {
	if err := NodeActionStarting(nil, "x"); !errors.Is(err, ErrNilContext) {
		t.Errorf("expected ErrNilContext, got %v", err)
	}
}

func TestChangesPostsOnlyOnChange(t *testing.T) {
	var sent []string
	c := &Changes{post: func(_ *maa.Context, content string) error {
		sent = append(sent, content)
		return nil
	}}

	for _, content := range []string{"Lv.3", "Lv.3", "Lv.4", "Lv.4", "Lv.3"} {
		if _, err := c.Post(nil, content); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}
	if len(sent) != 3 || sent[0] != "Lv.3" || sent[1] != "Lv.4" || sent[2] != "Lv.3" {
		t.Errorf("expected [Lv.3 Lv.4 Lv.3], got %v", sent)
	}

	c.Reset()
	if posted, _ := c.Post(nil, "Lv.3"); !posted {
		t.Error("expected post after reset")
	}
}

func TestChangesRetriesFailedPost(t *testing.T) {
	fail := true
	c := &Changes{post: func(*maa.Context, string) error {
		if fail {
			return ErrNilContext
		}
		return nil
	}}
	if _, err := c.Post(nil, "a"); err == nil {
		t.Fatal("expected error from failing post")
	}
	fail = false
	if posted, err := c.Post(nil, "a"); !posted || err != nil {
		t.Errorf("expected retry to post, got posted=%v err=%v", posted, err)
	}
}
