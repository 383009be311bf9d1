package catalog

import (
	"net/url"
	"strings"
)

// DefaultBucketHost is the object-storage host the catalog images live on.
const DefaultBucketHost = "ocs-production-public-images.s3.amazonaws.com"

// Rewriter maps asset references that point at the bucket (or at a bare
// absolute path) onto a single canonical form. With Proxied set the form is
// the local "/images/<path>" path served by the image proxy; otherwise it is
// the absolute bucket URL. Rewrite is idempotent.
type Rewriter struct {
	BucketHost string
	Proxied    bool
}

// Rewrite returns the canonical form of ref. References on other hosts are
// returned unchanged.
func (r Rewriter) Rewrite(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ref
	}
	if strings.HasPrefix(ref, "/") {
		return r.canonical(normalizeImagePath(ref), "")
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return ref
	}
	if !strings.EqualFold(u.Hostname(), r.host()) {
		return ref
	}
	search := ""
	if u.RawQuery != "" {
		search = "?" + u.RawQuery
	}
	return r.canonical(normalizeImagePath(u.Path), search)
}

func (r Rewriter) host() string {
	if r.BucketHost == "" {
		return DefaultBucketHost
	}
	return r.BucketHost
}

func (r Rewriter) canonical(path, search string) string {
	if r.Proxied {
		return "/images/" + path + search
	}
	return "https://" + r.host() + "/images/" + path + search
}

func normalizeImagePath(p string) string {
	p = strings.TrimLeft(p, "/")
	for strings.HasPrefix(p, "images/") {
		p = strings.TrimPrefix(p, "images/")
	}
	return p
}
