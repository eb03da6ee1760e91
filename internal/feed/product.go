package feed

import "encoding/json"

// TimerOptions carries the catalog-wide expiration timer. The upstream feed
// embeds the format markers in the key names themselves; they are preserved
// verbatim for compatibility.
type TimerOptions struct {
	CurrentTime      string `json:"currentTime|datetime"`
	NextAdditionTime string `json:"nextAdditionTime|datetime"`
}

// DownloadURL holds the locator pair for one download descriptor.
type DownloadURL struct {
	Web        string `json:"web"`
	BitTorrent string `json:"bittorrent,omitempty"`
}

// Download is one per-platform download descriptor: locator, checksum, size.
type Download struct {
	MachineName string      `json:"machine_name"`
	Name        string      `json:"name"`
	URL         DownloadURL `json:"url"`
	FileSize    int64       `json:"file_size"`
	MD5         string      `json:"md5"`
	Size        string      `json:"size,omitempty"`
}

// CarouselContent groups the imagery attached to a product.
type CarouselContent struct {
	YoutubeLink []string `json:"youtube-link,omitempty"`
	Thumbnail   []string `json:"thumbnail"`
	Screenshot  []string `json:"screenshot"`
}

// Product is one catalog item. The upstream feed uses kebab-case keys for
// most fields with machine_name as the lone snake_case exception; the tags
// mirror that exactly so captured snapshot text stays byte-compatible.
type Product struct {
	MachineName      string              `json:"machine_name"`
	HumanName        string              `json:"human-name"`
	DateAdded        int64               `json:"date-added"`
	DescriptionText  string              `json:"description-text"`
	Image            string              `json:"image"`
	Logo             string              `json:"logo,omitempty"`
	CarouselContent  CarouselContent     `json:"carousel-content"`
	Downloads        map[string]Download `json:"downloads"`
	YoutubeLink      string              `json:"youtube-link,omitempty"`
	AllAccess        bool                `json:"all-access,omitempty"`
	Popularity       int                 `json:"popularity,omitempty"`
	BackgroundImage  string              `json:"background-image,omitempty"`
	BackgroundColor  string              `json:"background-color,omitempty"`
	HumbleOriginal   bool                `json:"humble-original,omitempty"`
	TroveShowcaseCSS string              `json:"trove-showcase-css,omitempty"`
	MarketingBlurb   json.RawMessage     `json:"marketing-blurb,omitempty"`
	Publishers       json.RawMessage     `json:"publishers,omitempty"`
	Developers       json.RawMessage     `json:"developers,omitempty"`
}

// ImageLocators returns every image locator attached to the product, in a
// stable order: main image, logo, screenshots, thumbnails.
func (p Product) ImageLocators() []string {
	locators := make([]string, 0, 2+len(p.CarouselContent.Screenshot)+len(p.CarouselContent.Thumbnail))
	if p.Image != "" {
		locators = append(locators, p.Image)
	}
	if p.Logo != "" {
		locators = append(locators, p.Logo)
	}
	locators = append(locators, p.CarouselContent.Screenshot...)
	locators = append(locators, p.CarouselContent.Thumbnail...)
	return locators
}

// payload is the embedded root document shape: the standard product list is
// spread across chunked locators and reassembled before this is decoded.
type payload struct {
	AllAccess             []string     `json:"allAccess"`
	DownloadPlatformOrder []string     `json:"downloadPlatformOrder"`
	NewlyAdded            []Product    `json:"newlyAdded"`
	CountdownTimerOptions TimerOptions `json:"countdownTimerOptions"`
	StandardProducts      []Product    `json:"standardProducts"`
	Chunks                int          `json:"chunks"`
}
