package catalog

import (
	"fmt"
	"io"
	"strings"

	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
)

// TypeAll disables the type filter.
const TypeAll = "all"

// Query is the filter a Working View was produced with.
type Query struct {
	Text string `json:"q" form:"q"`
	Type string `json:"type" form:"type"`
}

func (q Query) typeFilter() string {
	t := strings.TrimSpace(q.Type)
	if strings.EqualFold(t, TypeAll) {
		return ""
	}
	return t
}

// Unfiltered reports whether the query selects the whole catalog.
func (q Query) Unfiltered() bool {
	return strings.TrimSpace(q.Text) == "" && q.typeFilter() == ""
}

// View is a caller's Working View together with the query that produced it.
type View struct {
	Items []*types.Material `json:"items"`
	Query Query             `json:"query"`
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionUp:
		return DirectionUp, nil
	case DirectionDown:
		return DirectionDown, nil
	default:
		return "", fmt.Errorf("%w: direction must be up or down", pkgerrors.ErrInvalidArgument)
	}
}

// Input carries the writable fields of a material.
type Input struct {
	WeekID      string   `json:"week_id" form:"week_id" validate:"required,uuid"`
	Title       string   `json:"title" form:"title" validate:"required,max=300"`
	Type        string   `json:"type" form:"type" validate:"required,material_type"`
	ContentURL  string   `json:"content_url" form:"content_url" validate:"omitempty,max=2048"`
	Description string   `json:"description" form:"description"`
	Summary     string   `json:"summary" form:"summary" validate:"max=1000"`
	IsVisible   *bool    `json:"is_visible" form:"is_visible"`
	MediaURLs   []string `json:"media_urls" form:"media_urls"`
}

func (in Input) normalized() Input {
	in.WeekID = strings.TrimSpace(in.WeekID)
	in.Title = strings.TrimSpace(in.Title)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.ContentURL = strings.TrimSpace(in.ContentURL)
	in.Summary = strings.TrimSpace(in.Summary)
	return in
}

func (in Input) materialType() types.MaterialType { return types.MaterialType(in.Type) }

// File is an optional upload accompanying a create or update.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

func (f *File) present() bool { return f != nil && f.Reader != nil }
