package models

import "time"

// Item kinds.
const (
	KindTestimonial = "testimonial"
	KindVideo       = "video"
)

// Item is one unit of rotating content. Its identity inside a showcase is Position.
type Item struct {
	ItemID   string `json:"item_id" bson:"item_id"`
	Showcase string `json:"showcase" bson:"showcase"`
	Position int    `json:"position" bson:"position"`
	Kind     string `json:"kind" bson:"kind"`

	Title    string `json:"title,omitempty" bson:"title,omitempty"`
	Quote    string `json:"quote,omitempty" bson:"quote,omitempty"`
	Author   string `json:"author,omitempty" bson:"author,omitempty"`
	Role     string `json:"role,omitempty" bson:"role,omitempty"`
	Avatar   string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Rating   int    `json:"rating,omitempty" bson:"rating,omitempty"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`
	VideoURL string `json:"video_url,omitempty" bson:"video_url,omitempty"`
}

// Command is a navigation request sent by a rendering surface.
type Command struct {
	Action string `json:"action"`
	Index  *int   `json:"index,omitempty"`
}

const (
	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionGoTo     = "goto"
)

// ShowcaseEvent is published for every controller state change.
type ShowcaseEvent struct {
	EventID   string    `json:"event_id"`
	SessionID string    `json:"session_id"`
	Showcase  string    `json:"showcase"`
	Kind      string    `json:"kind"`
	Index     int       `json:"index"`
	Manual    bool      `json:"manual"`
	Timestamp time.Time `json:"timestamp"`
}

// CatalogChange tells the service a showcase's items were edited upstream.
type CatalogChange struct {
	Showcase string `json:"showcase"`
	Reason   string `json:"reason,omitempty"`
}
