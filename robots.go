package notepress

import "strings"

// RobotsTxt builds the robots.txt body, keeping crawlers out of the admin
// area and pointing them at the sitemap.
func RobotsTxt(cfg SiteConfig) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Allow: /\n\n")
	b.WriteString("Sitemap: " + strings.TrimRight(cfg.URL, "/") + "/sitemap.xml\n")
	return b.String()
}
