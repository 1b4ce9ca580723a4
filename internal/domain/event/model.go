// internal/domain/event/model.go

package event

import (
	"time"
)

// Category classifies an event. The closed set below is what the filter
// surface exposes; Sports and Coworking only appear at creation time.
type Category string

const (
	CategoryParty     Category = "party"
	CategoryMusic     Category = "music"
	CategoryFood      Category = "food"
	CategoryShop      Category = "shop"
	CategoryArt       Category = "art"
	CategoryCoffee    Category = "coffee"
	CategorySports    Category = "sports"
	CategoryCoworking Category = "coworking"
)

// Coordinates is a [longitude, latitude] pair. Every event in the store uses
// this axis order once normalization has run; raw source data may arrive in
// either order and is corrected on load.
type Coordinates [2]float64

// Lon returns the longitude component.
func (c Coordinates) Lon() float64 { return c[0] }

// Lat returns the latitude component.
func (c Coordinates) Lat() float64 { return c[1] }

// Host is display attribution for an event
type Host struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Event is the central entity: a point-located happening users can
// discover, RSVP to, and chat about
type Event struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Coordinates    *Coordinates `json:"coordinates"`
	Category       Category     `json:"category"`
	Icon           string       `json:"icon"`
	StartTime      *time.Time   `json:"start_time,omitempty"`
	EndTime        *time.Time   `json:"end_time,omitempty"`
	FullAddress    string       `json:"full_address,omitempty"`
	HeaderImageURL string       `json:"header_image_url,omitempty"`
	FontStyle      string       `json:"font_style,omitempty"`
	Host           *Host        `json:"host,omitempty"`
}

// Record is a raw event row as returned by the remote source. The coordinate
// field is left untyped because the source emits it in several shapes
// (Postgres point text, WKT, bare "lon, lat" strings, x/y objects); the store
// normalizes it into Coordinates on load.
type Record struct {
	ID             string
	Title          string
	Description    string
	Coordinates    interface{}
	Category       string
	Icon           string
	StartTime      *time.Time
	EndTime        *time.Time
	FullAddress    string
	HeaderImageURL string
	FontStyle      string
}
