// internal/flash/flash.go
//
// Curbside – one-shot notification banners.
//
// Context
//   After a redirect (successful submission, logout) the next page shows a
//   banner.  Success banners auto-dismiss after a few seconds; error
//   banners persist until the user navigates away.  The message rides a
//   short-lived cookie, consumed on first read, so no server-side state is
//   involved.
//
//------------------------------------------------------------------------------

package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "curbside_flash"

// Level selects the banner styling and dismissal behaviour.
type Level string

const (
	Success Level = "success"
	Error   Level = "error"
)

// Message is one pending banner.  DismissAfter is in seconds; zero means
// the banner stays until dismissed, which is how errors behave.
type Message struct {
	Level        Level  `json:"level"`
	Text         string `json:"text"`
	DismissAfter int    `json:"dismiss_after,omitempty"`
}

// Succeed queues a success banner that auto-dismisses after 4 seconds.
func Succeed(w http.ResponseWriter, text string) {
	Set(w, Message{Level: Success, Text: text, DismissAfter: 4})
}

// Fail queues a persistent error banner.
func Fail(w http.ResponseWriter, text string) {
	Set(w, Message{Level: Error, Text: text})
}

// Set queues msg for the next page view.
func Set(w http.ResponseWriter, msg Message) {
	j, err := json.Marshal(msg)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(j),
		Path:     "/",
		MaxAge:   60, // consumed on the very next view
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending message, if any, and clears the cookie so the
// banner shows exactly once.
func Pop(w http.ResponseWriter, r *http.Request) *Message {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name: cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil
	}
	return &msg
}
