package pipeline

import (
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/stagekit/stagekit/internal/replace"
)

// RewriteURLs substitutes the staging dataset's previous site and home URLs
// with the given targets across every staging-prefixed table. Both targets
// are validated before any dataset access. It returns the number of changed
// cells; an unavailable substitution tool is tolerated and reported as zero.
func (p *Pipeline) RewriteURLs(homeURL, siteURL string) (int64, error) {
	if !validURL(homeURL) {
		return 0, Errf(CodeInvalidHomeURL, "home URL %q is not a valid absolute URL", homeURL)
	}
	if !validURL(siteURL) {
		return 0, Errf(CodeInvalidSiteURL, "site URL %q is not a valid absolute URL", siteURL)
	}

	prevSite, found, err := p.staging.Get("siteurl")
	if err != nil {
		return 0, err
	}
	if !found || prevSite == "" {
		return 0, Errf(CodeMissingSiteURL, "staging dataset carries no siteurl option")
	}

	// Scope the substitution to the same table set the staging store reads.
	glob := p.staging.Prefix() + "*"
	total, err := p.substitute(prevSite, siteURL, glob)
	if err != nil {
		return total, err
	}

	prevHome, found, err := p.staging.Get("home")
	if err != nil {
		return total, err
	}
	if !found || prevHome == "" {
		return total, Errf(CodeMissingHome, "staging dataset carries no home option")
	}

	if prevHome != prevSite {
		n, err := p.substitute(prevHome, homeURL, glob)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// substitute runs one scoped replacement. An absent tool degrades to a
// no-op; a tool that ran and failed is a hard error, since it may have
// rewritten part of the dataset already.
func (p *Pipeline) substitute(search, repl, glob string) (int64, error) {
	n, err := p.replacer.Replace(search, repl, glob, false)
	if errors.Is(err, replace.ErrUnavailable) {
		p.logger.Warn("substitution tool unavailable, URLs not rewritten",
			zap.String("search", search))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("substitution of %q failed: %w", search, err)
	}
	p.logger.Info("rewrote URL occurrences",
		zap.String("search", search),
		zap.String("replace", repl),
		zap.Int64("cells", n))
	return n, nil
}

// validURL accepts absolute http/https URLs with a host.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
