package backend

import (
	"reflect"
	"time"

	"riskclient/internal/eventcontext"
	"riskclient/pkg/nullable"
)

// Event is the input of track and authenticate.
type Event struct {
	Name string
	// UserID is required by authenticate. Track sends null when it is empty.
	UserID string
	// ReviewID is only sent by track, and only when set.
	ReviewID   nullable.Value[string]
	Context    eventcontext.Context
	Properties any
	Traits     any
}

type trackPayload struct {
	Name       string                 `json:"name"`
	UserID     nullable.Value[string] `json:"user_id"`
	ReviewID   nullable.Value[string] `json:"review_id,omitzero"`
	Context    eventcontext.Context   `json:"context"`
	Properties any                    `json:"properties,omitempty"`
	Trait      any                    `json:"trait,omitempty"`
}

type authenticatePayload struct {
	Name       string               `json:"name"`
	UserID     string               `json:"user_id"`
	Context    eventcontext.Context `json:"context"`
	Properties any                  `json:"properties,omitempty"`
	Traits     any                  `json:"traits,omitempty"`
}

type identifyPayload struct {
	UserID  string               `json:"user_id"`
	Context eventcontext.Context `json:"context"`
	Traits  any                  `json:"traits,omitempty"`
}

// optional drops typed nils (a nil map, slice or pointer in an any) so that
// omitempty omits the field instead of sending null.
func optional(v any) any {
	if v == nil {
		return nil
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}

// Review is a manual review fetched by id.
type Review struct {
	ReviewID  string        `json:"review_id"`
	UserID    string        `json:"user_id"`
	Action    string        `json:"action,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Context   ReviewContext `json:"context"`
}

type ReviewContext struct {
	IP        string           `json:"ip,omitempty"`
	Location  *Location        `json:"location,omitempty"`
	UserAgent *ReviewUserAgent `json:"user_agent,omitempty"`
}

type Location struct {
	CountryCode string  `json:"country_code,omitempty"`
	Country     string  `json:"country,omitempty"`
	Region      string  `json:"region,omitempty"`
	RegionCode  string  `json:"region_code,omitempty"`
	City        string  `json:"city,omitempty"`
	Lat         float64 `json:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty"`
}

type ReviewUserAgent struct {
	Raw      string `json:"raw,omitempty"`
	Browser  string `json:"browser,omitempty"`
	Version  string `json:"version,omitempty"`
	OS       string `json:"os,omitempty"`
	Mobile   bool   `json:"mobile"`
	Platform string `json:"platform,omitempty"`
	Device   string `json:"device,omitempty"`
}
