package library

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trovekeep/internal/feed"
)

// ErrNoDownload is returned when none of the configured platforms has a
// download descriptor for a product.
var ErrNoDownload = errors.New("no download for configured platforms")

const dateLayout = "2006-01-02"

// Record is one library entry. Created the first time a machine name
// appears in a catalog snapshot and never deleted; descriptive fields are
// refreshed on every merge, download state only by explicit status updates.
type Record struct {
	MachineName        string           `json:"machine_name"`
	HumanName          string           `json:"human_name"`
	Description        string           `json:"description,omitempty"`
	DateAdded          int64            `json:"date_added"`
	Platform           string           `json:"platform"`
	Filename           string           `json:"filename"`
	DownloadURL        feed.DownloadURL `json:"download_url"`
	FileSize           int64            `json:"file_size,omitempty"`
	MD5                string           `json:"md5,omitempty"`
	Downloaded         bool             `json:"downloaded"`
	Installed          bool             `json:"installed"`
	Image              string           `json:"image,omitempty"`
	Logo               string           `json:"logo,omitempty"`
	Screenshots        []string         `json:"screenshots,omitempty"`
	Thumbnails         []string         `json:"thumbnails,omitempty"`
	FirstSeenOn        string           `json:"first_seen_on"`
	LastSeenOn         string           `json:"last_seen_on"`
	RemovedFromCatalog bool             `json:"removed_from_catalog"`
}

// newRecord builds a record from a catalog product, selecting the download
// by walking the platform priority list and taking the first platform the
// product offers.
func newRecord(product feed.Product, platformPriority []string, now time.Time) (Record, error) {
	platform, download, err := selectDownload(product, platformPriority)
	if err != nil {
		return Record{}, err
	}

	today := now.UTC().Format(dateLayout)
	record := Record{
		MachineName: product.MachineName,
		HumanName:   product.HumanName,
		Platform:    platform,
		Filename:    locatorFilename(download.URL.Web),
		FirstSeenOn: today,
		LastSeenOn:  today,
	}
	record.refreshFrom(product, download)
	return record, nil
}

// refreshFrom updates the descriptive fields from a fresh catalog product.
// Download state and first-seen are left alone.
func (r *Record) refreshFrom(product feed.Product, download feed.Download) {
	r.HumanName = product.HumanName
	r.Description = product.DescriptionText
	r.DateAdded = product.DateAdded
	r.DownloadURL = download.URL
	r.FileSize = download.FileSize
	r.MD5 = download.MD5
	r.Image = product.Image
	r.Logo = product.Logo
	r.Screenshots = product.CarouselContent.Screenshot
	r.Thumbnails = product.CarouselContent.Thumbnail
}

// DisplayTitle returns the human name, falling back to a title-cased form
// of the machine name when the catalog supplied none.
func (r Record) DisplayTitle() string {
	if r.HumanName != "" {
		return r.HumanName
	}
	cleaned := strings.ReplaceAll(r.MachineName, "_", " ")
	return cases.Title(language.English).String(cleaned)
}

func selectDownload(product feed.Product, platformPriority []string) (string, feed.Download, error) {
	for _, platform := range platformPriority {
		if download, ok := product.Downloads[platform]; ok {
			return platform, download, nil
		}
	}
	return "", feed.Download{}, fmt.Errorf("%w: %s (offers %s)",
		ErrNoDownload, product.MachineName, strings.Join(platformNames(product), ", "))
}

func platformNames(product feed.Product) []string {
	names := make([]string, 0, len(product.Downloads))
	for name := range product.Downloads {
		names = append(names, name)
	}
	return names
}

// locatorFilename derives the expected on-disk filename from a download
// locator: the last path segment, query string excluded.
func locatorFilename(locator string) string {
	parsed, err := url.Parse(locator)
	if err != nil {
		return path.Base(locator)
	}
	return path.Base(parsed.Path)
}
