// Package qr derives the public profile link a QR code points at, the image
// URL that renders it, and resolves a scanned link back to a profile.
package qr

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
)

// Query parameters of the public view
const (
	QueryUserID = "uid"
	QueryName   = "name"
)

// PublicProfilePath is the route of the public view under the base URL
const PublicProfilePath = "/public-profile"

// Link is the derived pair persisted on regeneration
type Link struct {
	PublicLink string `json:"publicLink"`
	ImageURL   string `json:"imageUrl"`
}

// Resolver maps (user id, display name) to a public link and back
type Resolver struct {
	publicBaseURL   string
	serviceEndpoint string
	imageSize       string
	docs            DocumentGetter
	logger          *zap.SugaredLogger
}

// NewResolver builds a resolver. docs may be nil when only forward
// derivation is needed.
func NewResolver(cfg config.QRConfig, docs DocumentGetter, logger *zap.SugaredLogger) *Resolver {
	size := cfg.ImageSize
	if size == "" {
		size = "200x200"
	}
	return &Resolver{
		publicBaseURL:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		serviceEndpoint: cfg.ServiceEndpoint,
		imageSize:       size,
		docs:            docs,
		logger:          logger,
	}
}

// DerivePublicLink builds the public view URL for a user. It depends only on
// its inputs and the configured base URL.
func (r *Resolver) DerivePublicLink(userID, displayName string) string {
	return r.publicBaseURL + PublicProfilePath +
		"?" + QueryUserID + "=" + escape(userID) +
		"&" + QueryName + "=" + escape(displayName)
}

// DeriveImageURL wraps a public link into a request to the QR rendering service
func (r *Resolver) DeriveImageURL(publicLink string) string {
	sep := "?"
	if strings.Contains(r.serviceEndpoint, "?") {
		sep = "&"
	}
	return r.serviceEndpoint + sep + "size=" + escape(r.imageSize) + "&data=" + escape(publicLink)
}

// Derive returns both URLs for a user
func (r *Resolver) Derive(userID, displayName string) Link {
	link := r.DerivePublicLink(userID, displayName)
	return Link{PublicLink: link, ImageURL: r.DeriveImageURL(link)}
}

// componentUnescaper restores the characters encodeURIComponent leaves
// as-is, so links match the ones already printed on QR codes
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escape percent-encodes a query component the way encodeURIComponent does
func escape(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
