package model

import (
	"strings"
	"time"

	"github.com/papercomputeco/disrello/pkg/utils"
)

// NewCard builds an open card with title and desc capped to their limits.
func NewCard(title, desc, author string, now time.Time) *Card {
	return &Card{
		ID:         NewID(KindCard),
		Title:      utils.Clip(strings.TrimSpace(title), MaxTitleLen),
		Desc:       utils.Clip(strings.TrimSpace(desc), MaxDescLen),
		AssignedTo: author,
		Created:    now,
		CreatedBy:  author,
	}
}

// SetDone marks the card done or open. Marking done floors progress to 100;
// reopening leaves progress untouched.
func (c *Card) SetDone(done bool) {
	c.Done = done
	if done && c.Progress < 100 {
		c.Progress = 100
	}
}

// Toggle flips Done with the same propagation as SetDone.
func (c *Card) Toggle() {
	c.SetDone(!c.Done)
}

// SetProgress clamps p to 0..100. Reaching 100 marks the card done and
// anything lower reopens it, so a done card always reports 100.
func (c *Card) SetProgress(p int) {
	c.Progress = ClampInt(p, 0, 100)
	c.Done = c.Progress >= 100
}
