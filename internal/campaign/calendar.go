package campaign

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
)

// ErrInvalidCalendar is wrapped by every Validate failure.
var ErrInvalidCalendar = errors.New("invalid campaign calendar")

// Period is the campaign period a transaction date falls into.
type Period string

const (
	// PeriodPre covers every date before the campaign starts.
	PeriodPre Period = "Pre-Campaign"
	// PeriodDuring covers the campaign window itself.
	PeriodDuring Period = "During-Campaign"
	// PeriodPost covers every date after the campaign ends.
	PeriodPost Period = "Post-Campaign"
)

// Periods lists the periods in chronological order.
var Periods = []Period{PeriodPre, PeriodDuring, PeriodPost}

// Window is an inclusive date range.
type Window struct {
	Start civil.Date
	End   civil.Date
}

// Contains reports whether d lies in the window, bounds included.
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Months returns the number of calendar months the window touches.
func (w Window) Months() int {
	return (w.End.Year-w.Start.Year)*12 + int(w.End.Month-w.Start.Month) + 1
}

func (w Window) wholeMonths() bool {
	return w.Start.Day == 1 && w.End.AddDays(1).Day == 1
}

func (w Window) String() string {
	return w.Start.String() + ".." + w.End.String()
}

// Calendar describes a single campaign: the pre-campaign reference window,
// the campaign window, the post-campaign window and the categories the
// campaign targets. A Calendar is a value and is never mutated once handed
// to the engine.
type Calendar struct {
	Pre      Window
	Campaign Window
	Post     Window

	// RelevantCategories are the only categories that take part in
	// baseline and uplift computations.
	RelevantCategories []domain.Category
}

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

// Default returns the 2024 Travel & Dining rewards campaign:
// six months of reference, three months of campaign, three months after.
func Default() Calendar {
	return Calendar{
		Pre:                Window{Start: date(2024, time.January, 1), End: date(2024, time.June, 30)},
		Campaign:           Window{Start: date(2024, time.July, 1), End: date(2024, time.September, 30)},
		Post:               Window{Start: date(2024, time.October, 1), End: date(2024, time.December, 31)},
		RelevantCategories: []domain.Category{domain.CategoryTravel, domain.CategoryDining},
	}
}

// Validate checks that the windows are valid, made of whole months and
// contiguous in Pre, Campaign, Post order.
func (c Calendar) Validate() error {
	windows := []struct {
		name string
		w    Window
	}{
		{"pre", c.Pre},
		{"campaign", c.Campaign},
		{"post", c.Post},
	}
	for _, nw := range windows {
		if !nw.w.Start.IsValid() || !nw.w.End.IsValid() {
			return fmt.Errorf("%w: %s window has an invalid bound", ErrInvalidCalendar, nw.name)
		}
		if nw.w.End.Before(nw.w.Start) {
			return fmt.Errorf("%w: %s window ends before it starts (%s)", ErrInvalidCalendar, nw.name, nw.w)
		}
		if !nw.w.wholeMonths() {
			return fmt.Errorf("%w: %s window %s is not made of whole months", ErrInvalidCalendar, nw.name, nw.w)
		}
	}
	if c.Pre.End.AddDays(1) != c.Campaign.Start {
		return fmt.Errorf("%w: pre window must end the day before the campaign starts", ErrInvalidCalendar)
	}
	if c.Campaign.End.AddDays(1) != c.Post.Start {
		return fmt.Errorf("%w: post window must start the day after the campaign ends", ErrInvalidCalendar)
	}
	if len(c.RelevantCategories) == 0 {
		return fmt.Errorf("%w: no relevant category", ErrInvalidCalendar)
	}
	return nil
}

// Classify assigns d to exactly one period. Only the campaign bounds are
// consulted, so dates before the pre window or after the post window still
// land in Pre or Post.
func (c Calendar) Classify(d civil.Date) Period {
	switch {
	case d.Before(c.Campaign.Start):
		return PeriodPre
	case !d.After(c.Campaign.End):
		return PeriodDuring
	default:
		return PeriodPost
	}
}

// Window returns the window matching p.
func (c Calendar) Window(p Period) Window {
	switch p {
	case PeriodPre:
		return c.Pre
	case PeriodDuring:
		return c.Campaign
	default:
		return c.Post
	}
}

// Relevant reports whether cat is targeted by the campaign.
func (c Calendar) Relevant(cat domain.Category) bool {
	for _, r := range c.RelevantCategories {
		if r == cat {
			return true
		}
	}
	return false
}
