package packaging

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

// WWW redirect modes.
const (
	RedirectToWWW    = "to-www"
	RedirectToNonWWW = "to-non-www"
	RedirectNone     = "none"
)

// HtaccessConfig holds the Apache options of a generated site.
type HtaccessConfig struct {
	EnableGzip    bool
	EnableCaching bool
	ForceHTTPS    bool
	WWWRedirect   string
	CustomRules   string
}

// HtaccessConfigFrom converts project settings.
func HtaccessConfigFrom(settings interfaces.HtaccessSettings) HtaccessConfig {
	return HtaccessConfig{
		EnableGzip:    settings.EnableGzip,
		EnableCaching: settings.EnableCaching,
		ForceHTTPS:    settings.ForceHTTPS,
		WWWRedirect:   strings.TrimSpace(settings.WWWRedirect),
		CustomRules:   settings.CustomRules,
	}
}

// Validate rejects unknown redirect modes. An empty mode means none.
func (c HtaccessConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.WWWRedirect, validation.In(RedirectToWWW, RedirectToNonWWW, RedirectNone, "")),
	)
}

// Htaccess renders the policy file. Sections keep a fixed order and are
// separated by blank lines.
func Htaccess(cfg HtaccessConfig, primaryDomain string) string {
	domain := strings.ToLower(strings.TrimSpace(primaryDomain))
	domain = strings.TrimPrefix(domain, "www.")

	var sections []string
	if cfg.ForceHTTPS {
		sections = append(sections, forceHTTPSSection)
	}
	if redirect := wwwRedirectSection(cfg.WWWRedirect, domain, cfg.ForceHTTPS); redirect != "" {
		sections = append(sections, redirect)
	}
	if cfg.EnableGzip {
		sections = append(sections, gzipSection)
	}
	if cfg.EnableCaching {
		sections = append(sections, cachingSection)
	}
	sections = append(sections, securityHeadersSection, directoryListingSection, sensitiveFilesSection, notFoundSection)
	if rules := strings.TrimSpace(cfg.CustomRules); rules != "" {
		sections = append(sections, "# Custom rules\n"+rules)
	}
	return strings.Join(sections, "\n\n") + "\n"
}

func wwwRedirectSection(mode, domain string, https bool) string {
	scheme := "http"
	if https {
		scheme = "https"
	}
	quoted := regexp.QuoteMeta(domain)

	switch mode {
	case RedirectToWWW:
		if domain == "" {
			return `# Redirect to www
<IfModule mod_rewrite.c>
  RewriteEngine On
  RewriteCond %{HTTP_HOST} !^www\. [NC]
  RewriteRule ^(.*)$ ` + scheme + `://www.%{HTTP_HOST}/$1 [L,R=301]
</IfModule>`
		}
		return `# Redirect to www
<IfModule mod_rewrite.c>
  RewriteEngine On
  RewriteCond %{HTTP_HOST} ^` + quoted + `$ [NC]
  RewriteRule ^(.*)$ ` + scheme + `://www.` + domain + `/$1 [L,R=301]
</IfModule>`
	case RedirectToNonWWW:
		if domain == "" {
			return `# Redirect to non-www
<IfModule mod_rewrite.c>
  RewriteEngine On
  RewriteCond %{HTTP_HOST} ^www\.(.+)$ [NC]
  RewriteRule ^(.*)$ ` + scheme + `://%1/$1 [L,R=301]
</IfModule>`
		}
		return `# Redirect to non-www
<IfModule mod_rewrite.c>
  RewriteEngine On
  RewriteCond %{HTTP_HOST} ^www\.` + quoted + `$ [NC]
  RewriteRule ^(.*)$ ` + scheme + `://` + domain + `/$1 [L,R=301]
</IfModule>`
	}
	return ""
}

const forceHTTPSSection = `# Force HTTPS
<IfModule mod_rewrite.c>
  RewriteEngine On
  RewriteCond %{HTTPS} off
  RewriteRule ^(.*)$ https://%{HTTP_HOST}/$1 [L,R=301]
</IfModule>`

const gzipSection = `# Enable Gzip compression
<IfModule mod_deflate.c>
  AddOutputFilterByType DEFLATE text/html text/plain text/xml text/css
  AddOutputFilterByType DEFLATE application/javascript application/x-javascript application/json
  AddOutputFilterByType DEFLATE application/xml application/rss+xml image/svg+xml
</IfModule>`

const cachingSection = `# Browser caching
<IfModule mod_expires.c>
  ExpiresActive On
  ExpiresByType text/html "access plus 1 hour"
  ExpiresByType text/css "access plus 1 month"
  ExpiresByType application/javascript "access plus 1 month"
  ExpiresByType image/jpeg "access plus 1 year"
  ExpiresByType image/png "access plus 1 year"
  ExpiresByType image/webp "access plus 1 year"
  ExpiresByType image/svg+xml "access plus 1 year"
  ExpiresByType image/x-icon "access plus 1 year"
</IfModule>`

const securityHeadersSection = `# Security headers
<IfModule mod_headers.c>
  Header set X-Content-Type-Options "nosniff"
  Header set X-Frame-Options "SAMEORIGIN"
  Header set X-XSS-Protection "1; mode=block"
  Header set Referrer-Policy "strict-origin-when-cross-origin"
</IfModule>`

const directoryListingSection = `# Disable directory listing
Options -Indexes`

const sensitiveFilesSection = `# Block access to sensitive files
<FilesMatch "(^\.|\.(bak|config|sql|fla|psd|ini|log|sh|inc|swp|dist)$)">
  Require all denied
</FilesMatch>`

const notFoundSection = `# Custom error pages
ErrorDocument 404 /index.html`
