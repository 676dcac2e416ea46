// internal/view/uahelpers.go
//
// Device-related template helpers.  Pages tweak markup by device class
// (mobile pickers for the event time, condensed admin tables) using the
// request enrichment captured by internal/requestinfo.
package view

import (
	"html/template"

	"github.com/curbsidehq/curbside-web/internal/requestinfo"
)

// deviceFuncMap returns helpers keyed off *requestinfo.RequestInfo, which
// handlers pass into template data as "Req".
func deviceFuncMap() template.FuncMap {
	return template.FuncMap{
		"browser":  func(ri *requestinfo.RequestInfo) string { return ri.UA.Browser },
		"os":       func(ri *requestinfo.RequestInfo) string { return ri.UA.OS },
		"device":   func(ri *requestinfo.RequestInfo) string { return ri.UA.Device },
		"isBot":    func(ri *requestinfo.RequestInfo) bool { return ri.UA.IsBot },
		"country":  func(ri *requestinfo.RequestInfo) string { return ri.Geo.CountryISO },
	}
}
